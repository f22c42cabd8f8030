// Copyright (c) The sqlport authors. All rights reserved.
//
// Permission is hereby granted, free of charge, to any person obtaining
// a copy of this software and associated documentation files (the
// "Software"), to deal in the Software without restriction, including
// without limitation the rights to use, copy, modify, merge, publish,
// distribute, sublicense, and/or sell copies of the Software, and to
// permit persons to whom the Software is furnished to do so, subject to
// the following conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
// LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
// OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
// WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

package sqlport

import (
	"fmt"
	"strings"
	"sync"
)

// Adapter opens Connections for one engine.
type Adapter interface {
	Open(params Params) (Connection, error)
}

// AdapterFunc adapts a function to the Adapter interface.
type AdapterFunc func(params Params) (Connection, error)

func (fn AdapterFunc) Open(params Params) (Connection, error) {
	return fn(params)
}

var (
	adapterMap   = make(map[string]Adapter)
	adapterMapMu sync.RWMutex
)

// Driver values that name an adapter by another name.
var adapterAliases = map[string]string{
	`mariadb`:   `mysql`,
	`postgres`:  `postgresql`,
	`pgsql`:     `postgresql`,
	`sqlite3`:   `sqlite`,
	`sqlserver`: `mssql`,
}

// RegisterAdapter associates an adapter name with an Adapter. Adapter
// packages call it from init, so importing one for side effect is enough to
// make it available to Open. Panics if the name is empty or already taken.
func RegisterAdapter(name string, adapter Adapter) {
	adapterMapMu.Lock()
	defer adapterMapMu.Unlock()

	if name == `` {
		panic(`missing adapter name`)
	}
	if _, ok := adapterMap[name]; ok {
		panic(`sqlport.RegisterAdapter() called twice for adapter: ` + name)
	}
	adapterMap[name] = adapter
}

// LookupAdapter returns the adapter registered under the given name or one
// of its aliases.
func LookupAdapter(name string) (Adapter, error) {
	name = strings.ToLower(name)
	if canonical, ok := adapterAliases[name]; ok {
		name = canonical
	}

	adapterMapMu.RLock()
	defer adapterMapMu.RUnlock()

	if adapter, ok := adapterMap[name]; ok {
		return adapter, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAdapter, name)
}

// Open builds a Connection with the adapter named by the "driver" parameter,
// handing the full parameter set through. The session itself is established
// lazily, on the first operation that needs it.
func Open(params Params) (Connection, error) {
	var name string
	for key, value := range params {
		if strings.ToLower(key) == `driver` {
			name = stringValue(value)
			break
		}
	}
	if name == "" {
		return nil, ErrMissingAdapterName
	}

	adapter, err := LookupAdapter(name)
	if err != nil {
		return nil, err
	}
	return adapter.Open(params)
}
