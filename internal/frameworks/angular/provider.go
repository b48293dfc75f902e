/*
MIT License

# Copyright (c) 2025 OcomSoft

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/
package angular

import (
	"github.com/ocomsoft/migratype/internal/types"
)

// Provider emits Angular injectable services.
type Provider struct{}

// New creates a new Angular provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the framework identifier.
func (p *Provider) Name() string {
	return "angular"
}

// Imports returns the Angular dependency injection import.
func (p *Provider) Imports(service *types.ServiceInfo) []string {
	return []string{"import { Injectable } from '@angular/core';"}
}

// ClassDecorators marks the class injectable at the root level.
func (p *Provider) ClassDecorators(service *types.ServiceInfo) []string {
	return []string{"@Injectable({ providedIn: 'root' })"}
}

// GenerateBindings returns nothing; the decorator is the whole shell.
func (p *Provider) GenerateBindings(service *types.ServiceInfo) string {
	return ""
}
