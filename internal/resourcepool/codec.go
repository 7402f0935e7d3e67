package resourcepool

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ValueType names the family a pool's values belong to. Every comparison,
// uniqueness check, and ordering decision for a pool's values is driven by
// its ValueType, not by the raw canonical string.
type ValueType string

const (
	ValueTypeInteger ValueType = "integer"
	ValueTypeIpv4    ValueType = "ipv4"
	ValueTypeString  ValueType = "string"
)

// ParseValueType validates a value type name from pool definition text.
func ParseValueType(s string) (ValueType, error) {
	switch ValueType(s) {
	case ValueTypeInteger, ValueTypeIpv4, ValueTypeString:
		return ValueType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown value type %q", ErrInvalidValue, s)
	}
}

// EncodeInteger returns the canonical decimal string form of an int64.
func EncodeInteger(v int64) string {
	return strconv.FormatInt(v, 10)
}

// EncodeIpv4 returns the canonical dotted-decimal string form of an IPv4 address.
func EncodeIpv4(v net.IP) (string, error) {
	v4 := v.To4()
	if v4 == nil {
		return "", fmt.Errorf("%w: not an IPv4 address: %s", ErrInvalidValue, v)
	}
	return v4.String(), nil
}

// DecodeInteger parses a canonical decimal string as a signed 64-bit integer.
// No leading zeros are permitted, matching the canonical form's invariant.
func DecodeInteger(s string) (int64, error) {
	if s == "" || (len(s) > 1 && (s[0] == '0' || (s[0] == '-' && s[1] == '0'))) {
		return 0, fmt.Errorf("%w: integer value has leading zeros: %q", ErrInvalidValue, s)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid integer: %v", ErrInvalidValue, s, err)
	}
	return v, nil
}

// DecodeIpv4 parses a canonical dotted-decimal string as an IPv4 address,
// rejecting octets with leading zeros (e.g. "172.0.01.1").
func DecodeIpv4(s string) (net.IP, error) {
	octets := strings.Split(s, ".")
	if len(octets) != 4 {
		return nil, fmt.Errorf("%w: %q is not a valid IPv4 address", ErrInvalidValue, s)
	}
	for _, o := range octets {
		if len(o) > 1 && o[0] == '0' {
			return nil, fmt.Errorf("%w: %q has a leading zero in an octet", ErrInvalidValue, s)
		}
	}
	ip := net.ParseIP(s)
	if ip == nil || ip.To4() == nil {
		return nil, fmt.Errorf("%w: %q is not a valid IPv4 address", ErrInvalidValue, s)
	}
	return ip.To4(), nil
}

// Decode validates that s is a well-formed canonical value for vt.
func Decode(s string, vt ValueType) error {
	switch vt {
	case ValueTypeInteger:
		_, err := DecodeInteger(s)
		return err
	case ValueTypeIpv4:
		_, err := DecodeIpv4(s)
		return err
	case ValueTypeString:
		if s == "" {
			return fmt.Errorf("%w: string value must be non-empty", ErrInvalidValue)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown value type %q", ErrTypeMismatch, vt)
	}
}

// Compare orders two canonical values of the same type. Integer and Ipv4
// use natural numeric order; String uses lexicographic order.
func Compare(a, b string, vt ValueType) int {
	switch vt {
	case ValueTypeInteger:
		ai, aerr := DecodeInteger(a)
		bi, berr := DecodeInteger(b)
		if aerr != nil || berr != nil {
			return strings.Compare(a, b)
		}
		switch {
		case ai < bi:
			return -1
		case ai > bi:
			return 1
		default:
			return 0
		}
	case ValueTypeIpv4:
		aip, aerr := DecodeIpv4(a)
		bip, berr := DecodeIpv4(b)
		if aerr != nil || berr != nil {
			return strings.Compare(a, b)
		}
		return compareIP4(aip, bip)
	default:
		return strings.Compare(a, b)
	}
}

func compareIP4(a, b net.IP) int {
	for i := 0; i < 4; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// nextIPv4 returns the IPv4 address one greater than v, and false if v was
// already 255.255.255.255.
func nextIPv4(v net.IP) (net.IP, bool) {
	v4 := v.To4()
	out := make(net.IP, 4)
	copy(out, v4)
	for i := 3; i >= 0; i-- {
		out[i]++
		if out[i] != 0 {
			return out, true
		}
	}
	return out, false // wrapped around: overflow
}
