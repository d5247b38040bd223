package authz

import "testing"

func uintPtr(n uint) *uint { return &n }

func TestIsOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		actorID uint
		ownerID *uint
		want    bool
	}{
		{name: "actor owns resource", actorID: 7, ownerID: uintPtr(7), want: true},
		{name: "different owner", actorID: 7, ownerID: uintPtr(8), want: false},
		{name: "nil owner denies everyone", actorID: 7, ownerID: nil, want: false},
		{name: "zero actor never owns", actorID: 0, ownerID: uintPtr(7), want: false},
		{name: "zero actor with nil owner", actorID: 0, ownerID: nil, want: false},
		{name: "zero actor with zero owner", actorID: 0, ownerID: uintPtr(0), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsOwner(tc.actorID, tc.ownerID); got != tc.want {
				t.Fatalf("IsOwner(%d, %v) = %v, want %v", tc.actorID, tc.ownerID, got, tc.want)
			}
		})
	}
}
