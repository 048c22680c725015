package security

import "testing"

func TestCanonicalStringKeepsEmptyValues(t *testing.T) {
	got := CanonicalString(map[string]string{
		"sign":        "ignored",
		"service":     "alipay.service.check",
		"biz_content": "<XML/>",
		"charset":     "",
		"sign_type":   "RSA2",
	})
	want := "biz_content=<XML/>&charset=&service=alipay.service.check&sign_type=RSA2"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestSigningStringSkipsEmpty(t *testing.T) {
	got := SigningString(map[string]string{
		"sign":        "ignored",
		"service":     "alipay.service.check",
		"biz_content": "<XML/>",
		"charset":     "",
		"":            "orphan",
		"sign_type":   "RSA2",
	})
	want := "biz_content=<XML/>&service=alipay.service.check&sign_type=RSA2"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCanonicalStringEmpty(t *testing.T) {
	if got := CanonicalString(nil); got != "" {
		t.Fatalf("expected empty canonical string, got %q", got)
	}
}
