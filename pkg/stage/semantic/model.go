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
	"github.com/consensys/go-stager/pkg/stage/ast"
	"github.com/consensys/go-stager/pkg/stage/scope"
	"github.com/consensys/go-stager/pkg/util/source"
)

// Model records the outcome of resolving a set of units: which symbol each
// name refers to, which symbol each declaration declares and the type of each
// expression.  All tables are keyed by node identifier.  A model is immutable
// once built, and therefore can be safely shared between concurrent
// compilations.
type Model struct {
	classifier Classifier
	// Types in scope everywhere, keyed by name.
	types map[string]*Symbol
	// Template members, keyed by name.
	templates map[string]*Symbol
	// Template members in order of declaration.
	members []*ast.Member
	// Symbols referred to by names, member accesses, invocations and types.
	resolved map[ast.NodeId]*Symbol
	// Symbols declared by declarations.
	declared map[ast.NodeId]*Symbol
	// Types of expressions and type references.
	typings map[ast.NodeId]*Type
	// Source mapping for all units.
	srcmaps *source.Maps[ast.NodeId]
}

func newModel(srcmaps *source.Maps[ast.NodeId]) *Model {
	return &Model{
		classifier: AttributeClassifier{},
		types:      make(map[string]*Symbol),
		templates:  make(map[string]*Symbol),
		resolved:   make(map[ast.NodeId]*Symbol),
		declared:   make(map[ast.NodeId]*Symbol),
		typings:    make(map[ast.NodeId]*Type),
		srcmaps:    srcmaps,
	}
}

// Resolve returns the symbol referred to by a given node, or nil if it does not
// refer to any symbol.
func (p *Model) Resolve(node ast.Node) *Symbol {
	return p.resolved[node.Id()]
}

// TypeOf returns the type of a given expression or type reference, or nil if
// it has none.
func (p *Model) TypeOf(node ast.Node) *Type {
	return p.typings[node.Id()]
}

// DeclaredSymbol returns the symbol declared by a given node, or nil if it
// declares nothing.
func (p *Model) DeclaredSymbol(node ast.Node) *Symbol {
	return p.declared[node.Id()]
}

// IntrinsicScope returns the intrinsic scope of a given symbol.
func (p *Model) IntrinsicScope(symbol *Symbol) scope.Scope {
	return p.classifier.IntrinsicScope(symbol)
}

// IntrinsicTypeScope returns the intrinsic scope of values of a given type.
func (p *Model) IntrinsicTypeScope(t *Type) scope.Scope {
	return p.classifier.TypeScope(t)
}

// Locate returns the source location of a given node.
func (p *Model) Locate(id ast.NodeId) source.Location {
	return p.srcmaps.Locate(id)
}

// SourceMaps returns the source maps of all units making up this model.
func (p *Model) SourceMaps() *source.Maps[ast.NodeId] {
	return p.srcmaps
}

// LookupType returns the type declared with a given name, or nil.
func (p *Model) LookupType(name string) *Symbol {
	return p.types[name]
}

// Templates returns all template members, in order of declaration.
func (p *Model) Templates() []*ast.Member {
	return p.members
}

// Template returns the template member with a given name, or nil.
func (p *Model) Template(name string) *ast.Member {
	if symbol, ok := p.templates[name]; ok {
		return symbol.Decl.(*ast.Member)
	}
	//
	return nil
}
