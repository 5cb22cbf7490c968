package utils

import (
	"regexp"
	"testing"
)

func TestNewOrderIDFormat(t *testing.T) {
	fs := regexp.MustCompile(`^FS-\d{6}-\d{4}$`)
	free := regexp.MustCompile(`^FREE-\d{6}-\d{4}$`)

	for i := 0; i < 50; i++ {
		if id := NewOrderID("FS"); !fs.MatchString(id) {
			t.Fatalf("bad FS order id: %q", id)
		}
		if id := NewOrderID("FREE"); !free.MatchString(id) {
			t.Fatalf("bad FREE order id: %q", id)
		}
	}
}
