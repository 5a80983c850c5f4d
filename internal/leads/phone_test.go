package leads

import "testing"

func TestNormalizePhoneAllPrefixForms(t *testing.T) {
	const want = "+971501234567"

	inputs := []string{
		"501234567",
		"0501234567",
		"971501234567",
		"00971501234567",
		"+971501234567",
	}
	for _, in := range inputs {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizePhoneStripsSeparators(t *testing.T) {
	if got := NormalizePhone("050 123 4567"); got != "+971501234567" {
		t.Errorf("got %q", got)
	}
	if got := NormalizePhone("(0)50-123-4567"); got != "+971501234567" {
		t.Errorf("got %q", got)
	}
}

func TestValidUAEPhone(t *testing.T) {
	valid := []string{
		"501234567",
		"0501234567",
		"971501234567",
		"00971501234567",
		"+971501234567",
		"050 123 4567",
	}
	for _, in := range valid {
		if !ValidUAEPhone(in) {
			t.Errorf("ValidUAEPhone(%q) = false, want true", in)
		}
	}

	invalid := []string{
		"",
		"12345",
		"+4479460000",
		"05012345678",  // ten subscriber digits
		"abc501234567", // letters
	}
	for _, in := range invalid {
		if ValidUAEPhone(in) {
			t.Errorf("ValidUAEPhone(%q) = true, want false", in)
		}
	}
}
