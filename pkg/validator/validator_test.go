package validator

import "testing"

type sample struct {
	StoreName string `validate:"notblank"`
	Quantity  int    `validate:"gt=0"`
}

func TestNotBlank(t *testing.T) {
	errs := ValidateStruct(&sample{StoreName: "   ", Quantity: 1})
	if len(errs) != 1 || errs[0].FailedField != "StoreName" || errs[0].Tag != "notblank" {
		t.Fatalf("unexpected errors %+v", errs)
	}
	if errs := ValidateStruct(&sample{StoreName: "Shop A", Quantity: 1}); len(errs) != 0 {
		t.Fatalf("expected no errors, got %+v", errs)
	}
}

func TestParamIsReported(t *testing.T) {
	errs := ValidateStruct(&sample{StoreName: "Shop A"})
	if len(errs) != 1 || errs[0].Tag != "gt" || errs[0].Value != "0" {
		t.Fatalf("unexpected errors %+v", errs)
	}
}
