// Package fees implements the A-share trading cost model: commission with a
// minimum charge on both sides, stamp duty on sells only, and the registry
// transfer fee.
package fees

import "fmt"

// Schedule holds the fee parameters applied to every fill.
type Schedule struct {
	CommissionRate  float64 `json:"commission_rate" yaml:"commission_rate"`
	MinCommission   float64 `json:"min_commission" yaml:"min_commission"`
	StampDutyRate   float64 `json:"stamp_duty_rate" yaml:"stamp_duty_rate"`
	TransferFeeRate float64 `json:"transfer_fee_rate" yaml:"transfer_fee_rate"`
}

// Default returns the standard retail schedule.
func Default() Schedule {
	return Schedule{
		CommissionRate:  0.0003,
		MinCommission:   5.0,
		StampDutyRate:   0.001,
		TransferFeeRate: 0.00002,
	}
}

// Validate rejects schedules that could produce negative fees.
func (s Schedule) Validate() error {
	if s.CommissionRate < 0 {
		return fmt.Errorf("commission_rate must be >= 0, got %v", s.CommissionRate)
	}
	if s.MinCommission < 0 {
		return fmt.Errorf("min_commission must be >= 0, got %v", s.MinCommission)
	}
	if s.StampDutyRate < 0 {
		return fmt.Errorf("stamp_duty_rate must be >= 0, got %v", s.StampDutyRate)
	}
	if s.TransferFeeRate < 0 {
		return fmt.Errorf("transfer_fee_rate must be >= 0, got %v", s.TransferFeeRate)
	}
	return nil
}

// Breakdown itemizes the fees charged on a single fill.
type Breakdown struct {
	Commission  float64
	StampDuty   float64
	TransferFee float64
}

// Total returns the sum of all fee components.
func (b Breakdown) Total() float64 {
	return b.Commission + b.StampDuty + b.TransferFee
}

// Buy computes fees for a buy fill of the given notional. Stamp duty is not
// charged on buys.
func (s Schedule) Buy(notional float64) Breakdown {
	return Breakdown{
		Commission:  s.commission(notional),
		TransferFee: notional * s.TransferFeeRate,
	}
}

// Sell computes fees for a sell fill of the given notional.
func (s Schedule) Sell(notional float64) Breakdown {
	return Breakdown{
		Commission:  s.commission(notional),
		StampDuty:   notional * s.StampDutyRate,
		TransferFee: notional * s.TransferFeeRate,
	}
}

func (s Schedule) commission(notional float64) float64 {
	if notional <= 0 {
		return 0
	}
	c := notional * s.CommissionRate
	if c < s.MinCommission {
		c = s.MinCommission
	}
	return c
}
