package auth

import (
	"context"
	"testing"
)

func TestNoneReturnsEmptyAuthorization(t *testing.T) {
	v, err := None{}.AuthorizationString(context.Background(), "/V2/nosql/data/Get")
	if err != nil {
		t.Fatal(err)
	}
	if v != "" {
		t.Fatalf("expected empty authorization from None, got %q", v)
	}
}

func TestStaticReturnsFixedToken(t *testing.T) {
	p := Static("Bearer abc123")
	v, err := p.AuthorizationString(context.Background(), "/V2/nosql/data/Put")
	if err != nil {
		t.Fatal(err)
	}
	if v != "Bearer abc123" {
		t.Fatalf("expected fixed token, got %q", v)
	}
}
