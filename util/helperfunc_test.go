package util

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"  Morning   Cardio ": "Morning Cardio",
		"Push-up":             "Push-up",
		"   ":                 "",
		"a\tb":                "a b",
	}
	for in, want := range cases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestContains(t *testing.T) {
	list := []string{"MALE", "FEMALE", "OTHER"}
	if !Contains("MALE", list) {
		t.Error("expected MALE to be found")
	}
	if Contains("male", list) {
		t.Error("expected lookup to be case sensitive")
	}
	if Contains("X", nil) {
		t.Error("expected miss on empty list")
	}
}

func TestBMICategory(t *testing.T) {
	cases := []struct {
		bmi  float64
		want string
	}{
		{16.0, "Underweight"},
		{18.5, "Normal weight"},
		{22.86, "Normal weight"},
		{26.12, "Overweight"},
		{31.0, "Obesity class I"},
		{37.5, "Obesity class II"},
		{42.0, "Obesity class III"},
	}
	for _, c := range cases {
		if got := BMICategory(c.bmi); got != c.want {
			t.Errorf("BMICategory(%v) = %q; want %q", c.bmi, got, c.want)
		}
	}
}

func TestSanitizeLogValue(t *testing.T) {
	if got := sanitizeLogValue("a\nb\rc\td"); got != "a b c d" {
		t.Errorf("expected control characters replaced, got %q", got)
	}
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'x'
	}
	if got := sanitizeLogValue(string(long)); len(got) != 203 {
		t.Errorf("expected truncation to 200 chars plus ellipsis, got %d", len(got))
	}
}
