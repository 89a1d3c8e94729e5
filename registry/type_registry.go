/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"reflect"
	"sync"
)

// typeNames holds explicit message type names that override the reflected name.
var (
	typeNames   = make(map[reflect.Type]string)
	typeNamesMu sync.RWMutex
)

// RegisterTypeName pins the message type name used for T.
// It panics if T already has a name, to prevent accidental overrides.
func RegisterTypeName[T any](name string) {
	t := indirect(reflect.TypeOf((*T)(nil)).Elem())
	if name == "" {
		panic(fmt.Sprintf("type registry: empty name for %v", t))
	}

	typeNamesMu.Lock()
	defer typeNamesMu.Unlock()
	if existing, exists := typeNames[t]; exists {
		panic(fmt.Sprintf("type registry: %v already registered as %q", t, existing))
	}
	typeNames[t] = name
}

// TypeName returns the message type name for t: a registered name if there is one,
// otherwise the fully-qualified Go name (import path + "." + type name).
// Pointer types resolve to their element type. A nil type yields "".
func TypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	t = indirect(t)

	typeNamesMu.RLock()
	name, ok := typeNames[t]
	typeNamesMu.RUnlock()
	if ok {
		return name
	}

	if t.Name() == "" || t.PkgPath() == "" {
		// unnamed and predeclared types
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// NameOf returns the message type name for T.
func NameOf[T any]() string {
	return TypeName(reflect.TypeOf((*T)(nil)).Elem())
}

// NameOfValue returns the message type name of v's dynamic type.
func NameOfValue(v any) string {
	return TypeName(reflect.TypeOf(v))
}

func indirect(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
