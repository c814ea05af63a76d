package module

import (
	"fmt"

	"fieldmapper/internal/mapping"
	"fieldmapper/primitive"
)

// Constant resolves constant fields to their literal, converted to the
// declared type.
type Constant struct {
	conversion *primitive.ConversionService
}

func NewConstant(conversion *primitive.ConversionService) *Constant {
	if conversion == nil {
		conversion = primitive.DefaultConversionService
	}

	return &Constant{conversion: conversion}
}

func (c *Constant) Name() string { return "constant" }

func (c *Constant) Supports(f *mapping.Field) bool {
	return f.Kind == mapping.KindConstant
}

func (c *Constant) Read(_ Session, f *mapping.Field) (mapping.FieldValue, error) {
	if !c.Supports(f) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedField, f)
	}

	out := f.Copy()

	v, err := c.conversion.Convert(f.Value, primitive.TypeOf(f.Value), "", f.Type, f.Format)
	if err != nil {
		return nil, fmt.Errorf("constant %v: %w", f.Value, err)
	}

	out.Value = v
	if out.Type == primitive.TypeNone {
		out.Type = primitive.TypeOf(v)
	}

	return out, nil
}

func (c *Constant) Write(_ Session, f *mapping.Field) error {
	return fmt.Errorf("%w: cannot write %s", ErrReadOnly, f)
}
