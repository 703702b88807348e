// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchsweep builds method collections by sweeping a base
// function over combinations of parameter values.
//
// The base function takes the row result plus a parameters struct:
//
//	func(v interface{}, p P) (interface{}, error)
//
// New pre-binds struct fields of P to each combination of candidate
// values and returns one specialized benchtab.Method per combination.
// Binding supplies arguments ahead of time and nothing else; the base
// function runs exactly as if called directly with the merged
// parameters.
package benchsweep

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/bioc/CellBench/benchtab"
)

// A Seq names one parameter of the base function's parameters struct
// and lists its candidate values.
type Seq struct {
	Name   string
	Values []interface{}
}

// An ArgumentError reports a Seq naming a parameter the base
// function's parameters struct does not have, or a candidate value
// that cannot be assigned to it.
type ArgumentError struct {
	// Params is the parameters struct type.
	Params reflect.Type
	// Name is the offending parameter name.
	Name string
	// Value is the unassignable value when BadValue is set.
	Value    interface{}
	BadValue bool
}

func (e *ArgumentError) Error() string {
	if e.BadValue {
		return fmt.Sprintf("cannot assign %T to parameter %s.%s", e.Value, e.Params, e.Name)
	}
	return fmt.Sprintf("no parameter %q in %s", e.Name, e.Params)
}

var (
	ifaceType = reflect.TypeOf((*interface{})(nil)).Elem()
	errType   = reflect.TypeOf((*error)(nil)).Elem()
)

// New returns a Methods collection for the named stage containing one
// method per combination of seq values, the full cross product with
// earlier sequences varying slowest. Each method is labeled by its
// bound values, e.g. "k_2_dims_10" for k=2, dims=10.
//
// fn must have the form func(v interface{}, p P) (interface{}, error)
// with P a struct; each Seq must name an exported field of P whose
// type its values are assignable to, else New returns an
// *ArgumentError.
func New(stage string, fn interface{}, seqs ...Seq) (*benchtab.Methods, error) {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if err := checkShape(ft); err != nil {
		return nil, err
	}
	pt := ft.In(1)

	if len(seqs) == 0 {
		return nil, fmt.Errorf("no parameter sequences given")
	}
	for _, seq := range seqs {
		if len(seq.Values) == 0 {
			return nil, fmt.Errorf("empty value sequence for parameter %q", seq.Name)
		}
		field, ok := pt.FieldByName(seq.Name)
		if !ok || field.PkgPath != "" {
			return nil, &ArgumentError{Params: pt, Name: seq.Name}
		}
		for _, v := range seq.Values {
			if v == nil || !reflect.TypeOf(v).AssignableTo(field.Type) {
				return nil, &ArgumentError{Params: pt, Name: seq.Name, Value: v, BadValue: true}
			}
		}
	}

	methods := benchtab.NewMethods(stage)
	idx := make([]int, len(seqs))
	for {
		params := reflect.New(pt).Elem()
		var label strings.Builder
		for i, seq := range seqs {
			v := seq.Values[idx[i]]
			params.FieldByName(seq.Name).Set(reflect.ValueOf(v))
			if i > 0 {
				label.WriteByte('_')
			}
			fmt.Fprintf(&label, "%s_%v", seq.Name, v)
		}
		methods.Add(label.String(), bind(fv, params))

		// Advance the odometer; the last sequence spins fastest.
		i := len(seqs) - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(seqs[i].Values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}
	return methods, nil
}

func checkShape(ft reflect.Type) error {
	switch {
	case ft.Kind() != reflect.Func:
		return fmt.Errorf("base function is %s, not a func", ft)
	case ft.NumIn() != 2 || ft.In(0) != ifaceType || ft.In(1).Kind() != reflect.Struct:
		return fmt.Errorf("base function %s must be func(interface{}, P) with struct P", ft)
	case ft.NumOut() != 2 || ft.Out(0) != ifaceType || ft.Out(1) != errType:
		return fmt.Errorf("base function %s must return (interface{}, error)", ft)
	}
	return nil
}

// bind closes over one filled parameters struct. params is never
// mutated after binding, so the returned method is safe for
// concurrent rows.
func bind(fv reflect.Value, params reflect.Value) benchtab.Method {
	return func(v interface{}) (interface{}, error) {
		in := reflect.New(ifaceType).Elem()
		if v != nil {
			in.Set(reflect.ValueOf(v))
		}
		out := fv.Call([]reflect.Value{in, params})
		res := out[0].Interface()
		if e := out[1].Interface(); e != nil {
			return nil, e.(error)
		}
		return res, nil
	}
}
