package lox

import "sort"

// Environment maps names to values for one scope and links to the scope that
// encloses it. Closures hold on to the environment they were declared in, so a
// chain stays alive for as long as any function value references it.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]Value)}
}

// Define binds name in this scope, replacing any existing binding.
func (e *Environment) Define(name string, val Value) {
	e.values[name] = val
}

func (e *Environment) Get(name Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if val, ok := env.values[name.Lexeme]; ok {
			return val, nil
		}
	}
	return NewNil(), newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign updates the innermost existing binding of name. It never creates one.
func (e *Environment) Assign(name Token, val Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = val
			return nil
		}
	}
	return newRuntimeError(name, "Undefined variable '%s'.", name.Lexeme)
}

// Lookup resolves name through the chain without producing an error.
func (e *Environment) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.enclosing {
		if val, ok := env.values[name]; ok {
			return val, true
		}
	}
	return NewNil(), false
}

// Names lists the bindings of this scope only, sorted.
func (e *Environment) Names() []string {
	names := make([]string, 0, len(e.values))
	for name := range e.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Environment) Enclosing() *Environment { return e.enclosing }
