package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/statement-parser/constants"
)

// StatementRecord represents a parsed statement for data transfer between layers.
//
// Every extracted field holds either a normalized canonical string or the
// constants.NotFound sentinel, never a raw match. Bank and FileHash are set
// once at creation and never change through the edit path.
type StatementRecord struct {
	ID              uuid.UUID      `json:"id"`
	Filename        string         `json:"filename"`
	Bank            constants.Bank `json:"bank"`
	DueDate         string         `json:"due_date"`
	Last4Digits     string         `json:"last_4_digits"`
	CreditLimit     string         `json:"credit_limit"`
	AvailableCredit string         `json:"available_credit"`
	StatementDate   string         `json:"statement_date"`
	ParsedAt        time.Time      `json:"parsed_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	FileHash        string         `json:"file_hash"`
	RawText         *string        `json:"raw_text,omitempty"`
}

// Field returns the stored value for an extractable field.
func (r *StatementRecord) Field(f constants.Field) string {
	switch f {
	case constants.FieldDueDate:
		return r.DueDate
	case constants.FieldLast4Digits:
		return r.Last4Digits
	case constants.FieldCreditLimit:
		return r.CreditLimit
	case constants.FieldAvailableCredit:
		return r.AvailableCredit
	case constants.FieldStatementDate:
		return r.StatementDate
	}
	return ""
}

// SetField stores a value for an extractable field.
func (r *StatementRecord) SetField(f constants.Field, v string) {
	switch f {
	case constants.FieldDueDate:
		r.DueDate = v
	case constants.FieldLast4Digits:
		r.Last4Digits = v
	case constants.FieldCreditLimit:
		r.CreditLimit = v
	case constants.FieldAvailableCredit:
		r.AvailableCredit = v
	case constants.FieldStatementDate:
		r.StatementDate = v
	}
}

// FieldPatch carries field-level edits. Nil members are left untouched.
// Bank and FileHash are deliberately absent: they are immutable after creation.
type FieldPatch struct {
	Filename        *string `json:"filename,omitempty"`
	DueDate         *string `json:"due_date,omitempty"`
	Last4Digits     *string `json:"last_4_digits,omitempty"`
	CreditLimit     *string `json:"credit_limit,omitempty"`
	AvailableCredit *string `json:"available_credit,omitempty"`
	StatementDate   *string `json:"statement_date,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p FieldPatch) Empty() bool {
	return p.Filename == nil && p.DueDate == nil && p.Last4Digits == nil &&
		p.CreditLimit == nil && p.AvailableCredit == nil && p.StatementDate == nil
}
