package commands

import (
	"errors"
	"fmt"

	"loadflow/internal/core/domain/model/kernel"
	"loadflow/internal/pkg/errs"
)

var ErrReportSeparationCommandIsNotConstructed = errors.New(
	"ReportSeparationCommand must be created via NewReportSeparationCommand constructor",
)

// ReportSeparationCommand carries one escort separation report: the measured
// lead and rear distances in meters for a convoy.
type ReportSeparationCommand struct {
	convoyID kernel.UUID
	leadM    float64
	rearM    float64

	guard kernel.ConstructorGuard
}

// NewReportSeparationCommand creates a validated separation report.
func NewReportSeparationCommand(convoyID kernel.UUID, leadM, rearM float64) (ReportSeparationCommand, error) {
	if err := convoyID.Validate(); err != nil {
		return ReportSeparationCommand{}, err
	}
	if leadM < 0 || rearM < 0 {
		return ReportSeparationCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"separation", fmt.Errorf("distances %v/%v must be non-negative", leadM, rearM))
	}

	return ReportSeparationCommand{
		convoyID: convoyID,
		leadM:    leadM,
		rearM:    rearM,
		guard:    kernel.NewConstructorGuard(),
	}, nil
}

// ConvoyID returns the reporting convoy.
func (c ReportSeparationCommand) ConvoyID() kernel.UUID {
	return c.convoyID
}

// LeadM returns the measured lead separation in meters.
func (c ReportSeparationCommand) LeadM() float64 {
	return c.leadM
}

// RearM returns the measured rear separation in meters.
func (c ReportSeparationCommand) RearM() float64 {
	return c.rearM
}

// Validate ensures the command was created through the constructor.
func (c *ReportSeparationCommand) Validate() error {
	return c.guard.Validate(ErrReportSeparationCommandIsNotConstructed)
}
