package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"lifefashion/internal/models"
)

func TestCanModifyReturn(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	cases := []struct {
		name   string
		ret    models.Return
		userID primitive.ObjectID
		want   bool
	}{
		{"owner pending", models.Return{UserID: owner, Status: models.ReturnStatusPending}, owner, true},
		{"owner approved", models.Return{UserID: owner, Status: models.ReturnStatusApproved}, owner, false},
		{"owner rejected", models.Return{UserID: owner, Status: models.ReturnStatusRejected}, owner, false},
		{"stranger pending", models.Return{UserID: owner, Status: models.ReturnStatusPending}, stranger, false},
	}

	for _, tc := range cases {
		if got := canModifyReturn(tc.ret, tc.userID); got != tc.want {
			t.Fatalf("%s: canModifyReturn = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestValidReturnStatus(t *testing.T) {
	for _, status := range []string{
		models.ReturnStatusPending,
		models.ReturnStatusApproved,
		models.ReturnStatusRejected,
		models.ReturnStatusRefunded,
	} {
		if !models.ValidReturnStatus(status) {
			t.Fatalf("expected %q to be valid", status)
		}
	}
	if models.ValidReturnStatus("Shipped") {
		t.Fatal("expected non-return status to be rejected")
	}
}
