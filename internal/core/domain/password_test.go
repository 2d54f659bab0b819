package domain

import (
	"strings"
	"testing"
)

func TestCheckPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     PasswordStrength
	}{
		{"StrongP@ss1", PasswordStrength{true, true, true, true, true}},
		{"Sh0rt!", PasswordStrength{false, true, true, true, true}},
		{"alllower1!", PasswordStrength{true, true, false, true, true}},
		{"ALLUPPER1!", PasswordStrength{true, false, true, true, true}},
		{"NoDigits!!", PasswordStrength{true, true, true, false, true}},
		{"NoSpecial12", PasswordStrength{true, true, true, true, false}},
		{"", PasswordStrength{}},
	}
	for _, tt := range tests {
		if got := CheckPasswordStrength(tt.password); got != tt.want {
			t.Fatalf("CheckPasswordStrength(%q) = %+v, want %+v", tt.password, got, tt.want)
		}
	}
}

func TestIsStrongPassword_EverySpecialCharCounts(t *testing.T) {
	for _, r := range PasswordSpecialChars {
		pw := "Abcdefg1" + string(r)
		if !IsStrongPassword(pw) {
			t.Fatalf("%q should be strong", pw)
		}
	}
}

func TestIsStrongPassword_OutsideSpecialSet(t *testing.T) {
	for _, pw := range []string{"Abcdefg1 ", "Abcdefg1~", "Abcdefg1|", "Abcdefg1é"} {
		if IsStrongPassword(pw) {
			t.Fatalf("%q should not count as having a special character", pw)
		}
	}
}

func TestIsStrongPassword_NonASCIIDigitsAndLetters(t *testing.T) {
	if IsStrongPassword("Abcdefgh١!") {
		t.Fatalf("a non-ASCII digit must not satisfy the digit rule")
	}
	if IsStrongPassword("ábcdefg1!Ä") {
		t.Fatalf("non-ASCII letters must not satisfy the letter rules")
	}
	if !IsStrongPassword(strings.Repeat("a", 20) + "B2!") {
		t.Fatalf("long ASCII password should be strong")
	}
}

func TestIsStrongPassword_ByteLimit(t *testing.T) {
	atLimit := "B2!" + strings.Repeat("a", MaxPasswordBytes-3)
	if !IsStrongPassword(atLimit) {
		t.Fatalf("%d-byte password should be accepted", len(atLimit))
	}
	if IsStrongPassword(atLimit + "a") {
		t.Fatalf("password over %d bytes should be rejected", MaxPasswordBytes)
	}
}
