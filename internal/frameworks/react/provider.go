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
package react

import (
	"fmt"
	"strings"

	"github.com/ocomsoft/migratype/internal/types"
)

// Provider emits plain service classes plus a state-subscribing hook
// per hand-written query when hook generation is enabled.
type Provider struct{}

// New creates a new React provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the framework identifier.
func (p *Provider) Name() string {
	return "react"
}

// Imports returns the React state imports when any hook will be
// emitted.
func (p *Provider) Imports(service *types.ServiceInfo) []string {
	if !p.emitsHooks(service) {
		return nil
	}
	return []string{"import { useEffect, useState } from 'react';"}
}

// ClassDecorators returns no decorators; the class itself stays plain.
func (p *Provider) ClassDecorators(service *types.ServiceInfo) []string {
	return nil
}

// GenerateBindings renders one hook per row-returning query. Exec
// queries have no state to subscribe to and get no hook.
func (p *Provider) GenerateBindings(service *types.ServiceInfo) string {
	if !p.emitsHooks(service) {
		return ""
	}

	var sb strings.Builder
	for _, q := range service.Queries {
		if q.Exec {
			continue
		}
		sb.WriteString("\n")
		p.writeHook(&sb, service, q)
	}
	return sb.String()
}

func (p *Provider) emitsHooks(service *types.ServiceInfo) bool {
	if !service.HooksEnabled {
		return false
	}
	for _, q := range service.Queries {
		if !q.Exec {
			return true
		}
	}
	return false
}

func (p *Provider) writeHook(sb *strings.Builder, service *types.ServiceInfo, q types.QueryMethod) {
	hookName := "use" + upperFirst(q.Name)
	stateType := q.ResultType + " | undefined"

	params := make([]string, 0, len(q.Params)+1)
	params = append(params, "service: "+service.ClassName)
	deps := make([]string, 0, len(q.Params)+1)
	deps = append(deps, "service")
	args := make([]string, 0, len(q.Params))
	for _, param := range q.Params {
		params = append(params, fmt.Sprintf("%s: %s", param.Name, param.Type))
		deps = append(deps, param.Name)
		args = append(args, param.Name)
	}

	sb.WriteString(fmt.Sprintf("/** React hook subscribing to %s.%s. */\n", service.ClassName, q.Name))
	sb.WriteString(fmt.Sprintf("export function %s(%s): %s {\n", hookName, strings.Join(params, ", "), stateType))
	sb.WriteString(fmt.Sprintf("  const [data, setData] = useState<%s>(undefined);\n", stateType))
	sb.WriteString("  useEffect(() => {\n")
	sb.WriteString("    let cancelled = false;\n")
	sb.WriteString(fmt.Sprintf("    service.%s(%s).then((result) => {\n", q.Name, strings.Join(args, ", ")))
	sb.WriteString("      if (!cancelled) {\n")
	sb.WriteString("        setData(result);\n")
	sb.WriteString("      }\n")
	sb.WriteString("    });\n")
	sb.WriteString("    return () => {\n")
	sb.WriteString("      cancelled = true;\n")
	sb.WriteString("    };\n")
	sb.WriteString(fmt.Sprintf("  }, [%s]);\n", strings.Join(deps, ", ")))
	sb.WriteString("  return data;\n")
	sb.WriteString("}\n")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
