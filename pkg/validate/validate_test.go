package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/electrostore/pkg/validate"
)

type checkoutInput struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	Email     string `json:"email"      validate:"required,email"`
	Phone     string `json:"phone"      validate:"required,max=15"`
	Rating    int    `json:"rating"     validate:"required,min=1,max=5"`
	Slug      string `form:"slug"       validate:"omitempty,slug"`
}

func valid() checkoutInput {
	return checkoutInput{
		FirstName: "Ada",
		Email:     "ada@example.com",
		Phone:     "+1 555-0100",
		Rating:    4,
		Slug:      "usb-c-cable",
	}
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(valid())
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(checkoutInput{})
	for _, f := range []string{"first_name", "email", "phone", "rating"} {
		if _, ok := errs[f]; !ok {
			t.Errorf("expected %s to be required, got %v", f, errs)
		}
	}
	if got := errs["first_name"]; got != "The first name field is required." {
		t.Errorf("unexpected message %q", got)
	}
}

func TestMaxLength(t *testing.T) {
	in := valid()
	in.Phone = "+1 555 0100 0100 0100"
	errs := validate.Struct(in)
	if got := errs["phone"]; got != "The phone may not be greater than 15 characters." {
		t.Errorf("unexpected phone message %q", got)
	}
}

func TestRatingRange(t *testing.T) {
	in := valid()
	in.Rating = 6
	errs := validate.Struct(in)
	if got := errs["rating"]; got != "The rating may not be greater than 5." {
		t.Errorf("unexpected rating message %q", got)
	}
}

func TestCustomRules(t *testing.T) {
	in := valid()
	in.Phone = "555-1234 x12"
	in.Slug = "Not A Slug"
	errs := validate.Struct(in)
	if _, ok := errs["phone"]; ok {
		t.Error("free-form phone within 15 characters should pass")
	}
	if _, ok := errs["slug"]; !ok {
		t.Error("expected slug rule to fail (form tag name)")
	}
}

func TestNonStructIsNoop(t *testing.T) {
	if validate.HasErrors(validate.Struct(42)) {
		t.Error("non-struct input should yield no errors")
	}
}
