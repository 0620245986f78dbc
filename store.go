/*
Copyright 2017-2020 Environmental Incentives, LLC.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cohqt

import (
	"fmt"
	"sort"
	"sync"
)

// Store is a flat namespace of named surfaces produced during a run. Each
// name is written at most once; publishing a second surface under an
// existing name is an error, which keeps intermediate artifacts immutable
// and makes name collisions a loud failure instead of a silent overwrite.
type Store struct {
	mu       sync.Mutex
	surfaces map[string]*Surface
}

// NewStore creates an empty artifact store.
func NewStore() *Store {
	return &Store{surfaces: make(map[string]*Surface)}
}

// Put publishes s under the given name.
func (st *Store) Put(name string, s *Surface) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.surfaces[name]; ok {
		return fmt.Errorf("in cohqt.Store.Put: artifact %q already exists", name)
	}
	st.surfaces[name] = s
	return nil
}

// Get returns the surface published under the given name.
func (st *Store) Get(name string) (*Surface, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.surfaces[name]
	if !ok {
		return nil, fmt.Errorf("in cohqt.Store.Get: no artifact %q", name)
	}
	return s, nil
}

// Has reports whether an artifact with the given name has been published.
func (st *Store) Has(name string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	_, ok := st.surfaces[name]
	return ok
}

// Names returns the sorted names of all published artifacts.
func (st *Store) Names() []string {
	st.mu.Lock()
	defer st.mu.Unlock()
	names := make([]string, 0, len(st.surfaces))
	for name := range st.surfaces {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
