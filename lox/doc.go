// Package lox implements a tree-walking interpreter for the Lox scripting
// language. A program flows through three stages:
//   - Scan turns source text into tokens, reporting unexpected characters and
//     unterminated strings without stopping.
//   - Parse builds statements by recursive descent, resynchronizing at
//     statement boundaries after an error.
//   - Interpreter.Interpret walks the statements against a chain of
//     environments rooted at a persistent global scope.
//
// Values are numbers (float64), strings, booleans, nil and callables. Only nil
// and false are falsy. Functions close over the environment they were declared
// in. Errors from all three stages are reported to a caller-owned Diagnostics
// sink, which hosts reset between REPL entries.
package lox
