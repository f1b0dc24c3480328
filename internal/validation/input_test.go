package validation

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Golden Retriever Puppy", "golden-retriever-puppy"},
		{"  Cute   Kitten!  ", "cute-kitten"},
		{"already-slugged", "already-slugged"},
		{"--Weird--Input--", "weird-input"},
		{"CAPS & Symbols #1", "caps-symbols-1"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidatePostalCode(t *testing.T) {
	if err := ValidatePostalCode("560001"); err != nil {
		t.Errorf("expected 560001 to be valid: %v", err)
	}
	for _, bad := range []string{"12345", "1234567", "56000a", ""} {
		if err := ValidatePostalCode(bad); err == nil {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}

func TestContainsContactInfo(t *testing.T) {
	positives := []string{
		"call me at 555-123-4567",
		"Call +91 987 654 3210 now",
		"see https://example.com/pets",
		"http://sketchy.link",
	}
	for _, text := range positives {
		if !ContainsContactInfo(text) {
			t.Errorf("expected contact info in %q", text)
		}
	}

	negatives := []string{
		"friendly 2 year old beagle",
		"has all shots, born 2023",
		"",
	}
	for _, text := range negatives {
		if ContainsContactInfo(text) {
			t.Errorf("did not expect contact info in %q", text)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if err := ValidateEmail("user@example.com"); err != nil {
		t.Errorf("expected valid email: %v", err)
	}
	for _, bad := range []string{"not-an-email", "a@b", "a b@c.com", ""} {
		if err := ValidateEmail(bad); err == nil {
			t.Errorf("expected %q to be invalid", bad)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("secret1"); err != nil {
		t.Errorf("expected valid password: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Error("expected too-short password to fail")
	}
	if err := ValidatePassword("this-password-is-way-too-long"); err == nil {
		t.Error("expected too-long password to fail")
	}
}
