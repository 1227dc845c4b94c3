// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package semantic

import (
	"github.com/consensys/go-stager/pkg/stage/scope"
)

// Attributes recognised by the classifier.
const (
	COMPILE_TIME                 = "CompileTime"
	RUN_TIME                     = "RunTime"
	COMPILE_TIME_RETURNS_RUNTIME = "CompileTimeReturnsRunTime"
)

// Classifier determines the intrinsic scope of declared entities, that is the
// scope they have regardless of where they are used.
type Classifier interface {
	// IntrinsicScope of a given symbol.
	IntrinsicScope(*Symbol) scope.Scope
	// TypeScope determines the intrinsic scope of values of a given type.
	TypeScope(*Type) scope.Scope
}

// AttributeClassifier classifies symbols according to the attributes with
// which they (or their enclosing types) are declared.  Entities without any
// attribute are neutral, except for template parameters which are run time
// unless marked (or typed) compile time, and members of the dynamic type.
type AttributeClassifier struct{}

// IntrinsicScope implementation for the Classifier interface.
func (p AttributeClassifier) IntrinsicScope(symbol *Symbol) scope.Scope {
	if symbol == nil {
		return scope.RunTimeOrCompileTime
	} else if s, ok := attributeScope(symbol); ok {
		return s
	}
	//
	switch symbol.Kind {
	case METHOD, FIELD:
		if s, ok := attributeScope(symbol.Owner); ok {
			return s
		} else if symbol.Type.IsDynamic() {
			return scope.Dynamic
		}
	case PARAMETER:
		if symbol.Owner != nil && symbol.Owner.Kind == TEMPLATE {
			if p.TypeScope(symbol.Type) == scope.CompileTimeOnly {
				return scope.CompileTimeOnly
			}
			//
			return scope.RunTimeOnly
		}
	case TYPE_PARAMETER:
		if symbol.Owner != nil && symbol.Owner.Kind == TEMPLATE {
			return scope.RunTimeOnly
		}
	}
	//
	return scope.RunTimeOrCompileTime
}

// TypeScope implementation for the Classifier interface.  A type is compile
// time only if it, or any of its generic arguments, is declared so.
func (p AttributeClassifier) TypeScope(t *Type) scope.Scope {
	switch {
	case t == nil:
		return scope.RunTimeOrCompileTime
	case t.IsDynamic():
		return scope.Dynamic
	case t.Mentions(isCompileTimeType):
		return scope.CompileTimeOnly
	case t.Symbol != nil && t.Symbol.Kind == TYPE && t.Symbol.HasAttribute(RUN_TIME):
		return scope.RunTimeOnly
	default:
		return scope.RunTimeOrCompileTime
	}
}

func isCompileTimeType(t *Type) bool {
	return t.Symbol != nil && t.Symbol.Kind == TYPE && t.Symbol.HasAttribute(COMPILE_TIME)
}

func attributeScope(symbol *Symbol) (scope.Scope, bool) {
	switch {
	case symbol == nil:
		return scope.Invalid, false
	case symbol.HasAttribute(COMPILE_TIME_RETURNS_RUNTIME):
		return scope.CompileTimeOnlyReturningRunTimeOnly, true
	case symbol.HasAttribute(COMPILE_TIME):
		return scope.CompileTimeOnly, true
	case symbol.HasAttribute(RUN_TIME):
		return scope.RunTimeOnly, true
	default:
		return scope.Invalid, false
	}
}
