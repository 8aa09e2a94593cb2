package v1

import "github.com/Behyna/hisabkitab/internal/service"

// EntryRequest is the body of process and update calls. Numbers are
// pointers so an absent field fails "required" while an explicit 0 passes.
type EntryRequest struct {
	CustomerName string   `json:"customer_name" validate:"required,notblank"`
	Item         string   `json:"item" validate:"required,notblank"`
	Quantity     *float64 `json:"quantity" validate:"required,min=0"`
	PricePerUnit *float64 `json:"price_per_unit" validate:"required,min=0"`
}

func (r EntryRequest) command() service.EntryCommand {
	return service.EntryCommand{
		CustomerName: r.CustomerName,
		Item:         r.Item,
		Quantity:     *r.Quantity,
		PricePerUnit: *r.PricePerUnit,
	}
}
