package lox

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func (in *Interpreter) registerNatives() {
	in.RegisterNative("clock", 0, nativeClock)
	in.RegisterNative("strlen", 1, nativeStrlen)
	in.RegisterNative("indexof", 2, nativeIndexOf)
	in.RegisterNative("substring", 3, nativeSubstring)
	in.RegisterNative("strat", 2, nativeStrat)
}

// NativeNames lists the native functions every interpreter starts with.
func NativeNames() []string {
	return []string{"clock", "indexof", "strat", "strlen", "substring"}
}

// RegisterNative defines a native function in the global environment.
func (in *Interpreter) RegisterNative(name string, arity int, fn NativeFunc) {
	in.globals.Define(name, NewCallable(NewNativeFunction(name, arity, fn)))
}

// nativeClock returns seconds since the Unix epoch with millisecond precision.
func nativeClock(in *Interpreter, args []Value) (Value, error) {
	return NewNumber(float64(in.clock().UnixMilli()) / 1000), nil
}

func nativeStrlen(in *Interpreter, args []Value) (Value, error) {
	s, err := stringArg("strlen", args, 0)
	if err != nil {
		return NewNil(), err
	}
	return NewNumber(float64(len([]rune(s)))), nil
}

// nativeIndexOf returns the rune index of target in s, or -1.
func nativeIndexOf(in *Interpreter, args []Value) (Value, error) {
	s, err := stringArg("indexof", args, 0)
	if err != nil {
		return NewNil(), err
	}
	target, err := stringArg("indexof", args, 1)
	if err != nil {
		return NewNil(), err
	}
	idx := strings.Index(s, target)
	if idx < 0 {
		return NewNumber(-1), nil
	}
	return NewNumber(float64(len([]rune(s[:idx])))), nil
}

func nativeSubstring(in *Interpreter, args []Value) (Value, error) {
	s, err := stringArg("substring", args, 0)
	if err != nil {
		return NewNil(), err
	}
	start, err := indexArg("substring", args, 1)
	if err != nil {
		return NewNil(), err
	}
	length, err := indexArg("substring", args, 2)
	if err != nil {
		return NewNil(), err
	}
	runes := []rune(s)
	if start > len(runes) || length > len(runes)-start {
		return NewNil(), fmt.Errorf("substring range %d..%d out of bounds for length %d", start, start+length, len(runes))
	}
	return NewString(string(runes[start : start+length])), nil
}

// nativeStrat returns the i-th space-separated field of the trimmed string,
// as a number when the field parses as one.
func nativeStrat(in *Interpreter, args []Value) (Value, error) {
	s, err := stringArg("strat", args, 0)
	if err != nil {
		return NewNil(), err
	}
	idx, err := indexArg("strat", args, 1)
	if err != nil {
		return NewNil(), err
	}
	fields := strings.Split(strings.TrimSpace(s), " ")
	if idx >= len(fields) {
		return NewNil(), fmt.Errorf("strat index %d out of bounds for %d fields", idx, len(fields))
	}
	field := fields[idx]
	if n, err := strconv.ParseFloat(field, 64); err == nil {
		return NewNumber(n), nil
	}
	return NewString(field), nil
}

func stringArg(fn string, args []Value, i int) (string, error) {
	if args[i].Kind() != KindString {
		return "", fmt.Errorf("%s expects a string as argument %d, got %s", fn, i+1, args[i].Kind())
	}
	return args[i].String(), nil
}

func indexArg(fn string, args []Value, i int) (int, error) {
	if args[i].Kind() != KindNumber {
		return 0, fmt.Errorf("%s expects a number as argument %d, got %s", fn, i+1, args[i].Kind())
	}
	n := args[i].Number()
	if n < 0 || n != math.Trunc(n) {
		return 0, fmt.Errorf("%s expects a non-negative integer as argument %d, got %s", fn, i+1, formatNumber(n))
	}
	if n > math.MaxInt32 {
		return 0, fmt.Errorf("%s argument %d out of bounds, got %s", fn, i+1, formatNumber(n))
	}
	return int(n), nil
}
