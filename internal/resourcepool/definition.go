package resourcepool

import (
	"encoding/binary"
	"fmt"
	"net"

	"github.com/pelletier/go-toml/v2"
)

// PoolDefinition is one top-level section of a pool definition document: a
// named, typed pool and the seed values it should be grown with.
type PoolDefinition struct {
	Name       string
	ValueType  ValueType
	SeedValues []string
}

// definitionRange is one {start, end} entry in a section's `ranges` array.
type definitionRange struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// definitionSection mirrors one `[pool_name]` section of the document.
type definitionSection struct {
	Type   string            `toml:"type"`
	Ranges []definitionRange `toml:"ranges"`
	Prefix string            `toml:"prefix"`
}

// ParseDefinitions parses a pool definition document into an ordered list of
// PoolDefinition, one per top-level section, processed in document order.
func ParseDefinitions(text string) ([]PoolDefinition, error) {
	var doc map[string]definitionSection
	// go-toml/v2 decodes top-level tables as a map, which loses source
	// order; sectionOrder recovers document order from the raw text, and
	// the map is then walked in that order.
	if err := toml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: parse pool definition: %v", ErrInvalidValue, err)
	}

	order, err := sectionOrder(text)
	if err != nil {
		return nil, err
	}

	defs := make([]PoolDefinition, 0, len(doc))
	seen := make(map[string]bool, len(doc))
	for _, name := range order {
		sec, ok := doc[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		def, err := buildDefinition(name, sec)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func buildDefinition(name string, sec definitionSection) (PoolDefinition, error) {
	vt, err := ParseValueType(sec.Type)
	if err != nil {
		return PoolDefinition{}, fmt.Errorf("section %q: %w", name, err)
	}

	hasRanges := len(sec.Ranges) > 0
	hasPrefix := sec.Prefix != ""
	if hasRanges == hasPrefix {
		return PoolDefinition{}, fmt.Errorf("%w: section %q must declare exactly one of ranges or prefix", ErrInvalidValue, name)
	}

	var seeds []string
	if hasRanges {
		seeds, err = expandRanges(name, vt, sec.Ranges)
	} else {
		if vt != ValueTypeIpv4 {
			return PoolDefinition{}, fmt.Errorf("%w: section %q: prefix is only valid for ipv4 pools", ErrInvalidValue, name)
		}
		seeds, err = expandPrefix(sec.Prefix)
	}
	if err != nil {
		return PoolDefinition{}, fmt.Errorf("section %q: %w", name, err)
	}

	return PoolDefinition{Name: name, ValueType: vt, SeedValues: seeds}, nil
}

// expandRanges enumerates every value start<=v<=end for each declared
// range, in document order. Overlapping ranges are left for the population
// engine to deduplicate (§4.2).
func expandRanges(section string, vt ValueType, ranges []definitionRange) ([]string, error) {
	var seeds []string
	for _, r := range ranges {
		if err := Decode(r.Start, vt); err != nil {
			return nil, err
		}
		if err := Decode(r.End, vt); err != nil {
			return nil, err
		}
		if Compare(r.Start, r.End, vt) > 0 {
			return nil, fmt.Errorf("%w: range start %q is greater than end %q", ErrInvalidValue, r.Start, r.End)
		}

		switch vt {
		case ValueTypeInteger:
			start, _ := DecodeInteger(r.Start)
			end, _ := DecodeInteger(r.End)
			for v := start; v <= end; v++ {
				seeds = append(seeds, EncodeInteger(v))
			}
		case ValueTypeIpv4:
			start, _ := DecodeIpv4(r.Start)
			end, _ := DecodeIpv4(r.End)
			for v := start; ; {
				seeds = append(seeds, v.String())
				if compareIP4(v, end) == 0 {
					break
				}
				next, ok := nextIPv4(v)
				if !ok {
					break
				}
				v = next
			}
		case ValueTypeString:
			return nil, fmt.Errorf("%w: string pools cannot be grown from ranges", ErrInvalidValue)
		}
	}
	return seeds, nil
}

// expandPrefix enumerates the host addresses of an IPv4 CIDR block,
// excluding the broadcast address but including the network address, so a
// /24 yields exactly 255 values. This mirrors the existing test fixture's
// observed contract (see spec §9's open question) rather than either of the
// "obvious" conventions (254 with both endpoints excluded, or 256 with
// neither excluded); implementers must match it exactly.
func expandPrefix(prefix string) ([]string, error) {
	ip, ipnet, err := net.ParseCIDR(prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed prefix %q: %v", ErrInvalidValue, prefix, err)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("%w: prefix %q is not IPv4", ErrInvalidValue, prefix)
	}

	ones, bits := ipnet.Mask.Size()
	if bits != 32 {
		return nil, fmt.Errorf("%w: prefix %q is not IPv4", ErrInvalidValue, prefix)
	}

	network := binary.BigEndian.Uint32(ipnet.IP.To4())
	hostBits := uint(32 - ones)
	var size uint64 = 1 << hostBits
	if size < 2 {
		return nil, fmt.Errorf("%w: prefix %q is too small to hold any host addresses", ErrInvalidValue, prefix)
	}
	broadcast := network + uint32(size-1)

	seeds := make([]string, 0, size-1)
	for v := network; v != broadcast; v++ {
		seeds = append(seeds, uint32ToIPv4(v).String())
	}
	return seeds, nil
}

func uint32ToIPv4(v uint32) net.IP {
	b := make(net.IP, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
