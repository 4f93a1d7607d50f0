package collection

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

type priced struct {
	ID int64 `json:"id"`
}

func (p priced) RecordID() int64 { return p.ID }

func pricedSchema() Schema[priced] {
	return Schema[priced]{
		Name: "products",
		Fields: []Field{
			{Name: "name", Kind: KindString, Rule: "required"},
			{Name: "sell_price", Kind: KindDecimal, Rule: "min=0"},
			{Name: "supplier", Kind: KindRef, Rule: "min=1"},
			{Name: "status", Kind: KindEnum, Rule: "oneof=normal fault", Default: "normal"},
			{Name: "note", Kind: KindString, Optional: true},
		},
	}
}

func TestBodyNormalizesKinds(t *testing.T) {
	body, err := pricedSchema().Body(map[string]any{
		"name":       " Cola ",
		"sell_price": json.Number("3.50"),
		"supplier":   float64(2),
	})
	if err != nil {
		t.Fatalf("Body: %v", err)
	}
	if body["name"] != "Cola" {
		t.Fatalf("name = %q", body["name"])
	}
	if body["sell_price"] != "3.5" {
		t.Fatalf("sell_price = %v", body["sell_price"])
	}
	if body["supplier"] != int64(2) || body["status"] != "normal" {
		t.Fatalf("body = %v", body)
	}
	if _, ok := body["note"]; ok {
		t.Fatalf("absent optional field should not be sent")
	}
}

func TestBodyReportsEveryFailedField(t *testing.T) {
	_, err := pricedSchema().Body(map[string]any{
		"sell_price": decimal.RequireFromString("-1"),
		"supplier":   "abc",
		"status":     "broken",
	})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	want := map[string]string{"name": "required", "sell_price": "min", "supplier": "ref", "status": "oneof"}
	for field, tag := range want {
		if ve.Fields[field] != tag {
			t.Fatalf("field %s = %q, want %q (all: %v)", field, ve.Fields[field], tag, ve.Fields)
		}
	}
	if !IsValidation(err) || ve.Error() == "" {
		t.Fatalf("IsValidation false")
	}
}

type stocked struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	SellPrice decimal.Decimal `json:"sell_price"`
	Supplier  int64           `json:"supplier"`
	Status    string          `json:"status"`
}

func (s stocked) RecordID() int64 { return s.ID }

func stockedSchema() Schema[stocked] {
	return Schema[stocked]{
		Name:   "products",
		Fields: pricedSchema().Fields,
	}
}

func TestUpdateBodyKeepsStoredValuesOverDefaults(t *testing.T) {
	current := stocked{ID: 1, Name: "Cola", SellPrice: decimal.RequireFromString("3.50"), Supplier: 4, Status: "fault"}

	body, err := stockedSchema().UpdateBody(map[string]any{"name": "Cola Zero"}, current)
	if err != nil {
		t.Fatalf("UpdateBody: %v", err)
	}
	if body["status"] != "fault" {
		t.Fatalf("status = %v, want the stored value", body["status"])
	}
	if body["name"] != "Cola Zero" || body["sell_price"] != "3.5" || body["supplier"] != int64(4) {
		t.Fatalf("body = %v", body)
	}

	body, err = stockedSchema().UpdateBody(map[string]any{"status": "normal"}, current)
	if err != nil || body["status"] != "normal" {
		t.Fatalf("explicit value should win: %v %v", body, err)
	}
}

func TestUpdateBodyValidatesMergedFields(t *testing.T) {
	_, err := stockedSchema().UpdateBody(map[string]any{"sell_price": "-2"}, stocked{ID: 1, Status: "normal", Supplier: 1})
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	// stored empty name is still required
	if ve.Fields["sell_price"] != "min" || ve.Fields["name"] != "required" {
		t.Fatalf("fields = %v", ve.Fields)
	}
}
