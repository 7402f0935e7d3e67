package resourcepool

import "testing"

func TestDecodeInteger(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"0", false},
		{"42", false},
		{"18446744073709551615", true},
		{"", true},
		{"01", true},
		{"-1", false},
		{"abc", true},
	}
	for _, c := range cases {
		err := Decode(c.in, ValueTypeInteger)
		if (err != nil) != c.wantErr {
			t.Errorf("Decode(%q, Integer) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
	}
}

func TestDecodeIpv4(t *testing.T) {
	cases := []struct {
		in      string
		wantErr bool
	}{
		{"172.0.1.0", false},
		{"255.255.255.255", false},
		{"172.0.01.1", true},
		{"172.0.1", true},
		{"256.0.0.1", true},
		{"not.an.ip.addr", true},
	}
	for _, c := range cases {
		err := Decode(c.in, ValueTypeIpv4)
		if (err != nil) != c.wantErr {
			t.Errorf("Decode(%q, Ipv4) error = %v, wantErr %v", c.in, err, c.wantErr)
		}
	}
}

func TestCompareInteger(t *testing.T) {
	if Compare("9", "10", ValueTypeInteger) >= 0 {
		t.Fatal("expected 9 < 10 under numeric comparison")
	}
	if Compare("10", "9", ValueTypeInteger) <= 0 {
		t.Fatal("expected 10 > 9")
	}
	if Compare("10", "10", ValueTypeInteger) != 0 {
		t.Fatal("expected 10 == 10")
	}
}

func TestCompareIpv4(t *testing.T) {
	if Compare("172.0.1.9", "172.0.1.10", ValueTypeIpv4) >= 0 {
		t.Fatal("expected .9 < .10 under numeric octet comparison, not lexicographic")
	}
	if Compare("172.0.2.0", "172.0.1.255", ValueTypeIpv4) <= 0 {
		t.Fatal("expected 172.0.2.0 > 172.0.1.255")
	}
}

func TestCompareString(t *testing.T) {
	if Compare("a", "b", ValueTypeString) >= 0 {
		t.Fatal("expected lexicographic ordering for string pools")
	}
}

func TestParseValueType(t *testing.T) {
	for _, s := range []string{"integer", "ipv4", "string"} {
		if _, err := ParseValueType(s); err != nil {
			t.Errorf("ParseValueType(%q) unexpected error: %v", s, err)
		}
	}
	if _, err := ParseValueType("float"); err == nil {
		t.Error("expected error for unknown value type")
	}
}
