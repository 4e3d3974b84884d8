package handlers

import (
	"regexp"
	"testing"
	"time"

	"lifefashion/internal/models"
)

func TestGenerateOTPIsSixDigits(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{6}$`)
	seen := map[string]struct{}{}
	for i := 0; i < 100; i++ {
		code, err := generateOTP()
		if err != nil {
			t.Fatalf("generateOTP returned error: %v", err)
		}
		if !pattern.MatchString(code) {
			t.Fatalf("unexpected otp format: %q", code)
		}
		seen[code] = struct{}{}
	}
	// 100 draws from a million-value space colliding down to a handful
	// would mean a broken generator.
	if len(seen) < 50 {
		t.Fatalf("otp generator produced only %d distinct codes in 100 draws", len(seen))
	}
}

func TestValidateOTP(t *testing.T) {
	now := time.Now()
	future := now.Add(5 * time.Minute)
	past := now.Add(-time.Minute)

	cases := []struct {
		name    string
		user    models.User
		code    string
		wantErr string
	}{
		{"exact match within window", models.User{OTPCode: "482913", OTPExpires: &future}, "482913", ""},
		{"match ignores surrounding whitespace", models.User{OTPCode: "482913", OTPExpires: &future}, " 482913 ", ""},
		{"wrong code", models.User{OTPCode: "482913", OTPExpires: &future}, "000000", "Invalid OTP"},
		{"expired code", models.User{OTPCode: "482913", OTPExpires: &past}, "482913", "OTP has expired"},
		{"no expiry stored", models.User{OTPCode: "482913"}, "482913", "OTP has expired"},
		{"consumed after reset", models.User{OTPExpires: &future}, "482913", "Invalid OTP"},
		{"empty submission", models.User{OTPCode: "482913", OTPExpires: &future}, "", "Invalid OTP"},
	}

	for _, tc := range cases {
		err := validateOTP(tc.user, tc.code, now)
		if tc.wantErr == "" {
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tc.name, err)
			}
			continue
		}
		if err == nil || err.Error() != tc.wantErr {
			t.Fatalf("%s: expected error %q, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestValidateOTPExactTenMinuteWindow(t *testing.T) {
	issued := time.Now()
	expires := issued.Add(otpTTL)
	user := models.User{OTPCode: "135790", OTPExpires: &expires}

	if err := validateOTP(user, "135790", issued.Add(9*time.Minute)); err != nil {
		t.Fatalf("code should still be valid inside the window: %v", err)
	}
	if err := validateOTP(user, "135790", issued.Add(11*time.Minute)); err == nil {
		t.Fatal("code should be rejected after the window closes")
	}
}
