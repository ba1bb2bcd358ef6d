package utils

import (
	"regexp"
	"strings"
	"testing"
)

func TestGenerateIDPrefix(t *testing.T) {
	for _, prefix := range []string{"user", "ts", "apt", "enot"} {
		id := GenerateID(prefix)
		if !strings.HasPrefix(id, prefix+"_") {
			t.Errorf("GenerateID(%q) = %q, missing prefix", prefix, id)
		}
	}
	if GenerateID("ts") == GenerateID("ts") {
		t.Error("consecutive ids should differ")
	}
}

func TestGenerateBookingReferenceFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^BR\d{5}$`)
	for i := 0; i < 100; i++ {
		ref := GenerateBookingReference()
		if !pattern.MatchString(ref) {
			t.Fatalf("GenerateBookingReference() = %q, want BR followed by 5 digits", ref)
		}
	}
}
