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

package anthro

import (
	"fmt"

	cohqt "github.com/eanderson-ei/co-hqt"
)

// PostRemoval builds the post-project presence surface for a credit
// project, where proposed surface disturbance is removed: cells covered
// by the removal footprint lose their current presence.
func PostRemoval(current, removed *cohqt.Surface) (*cohqt.Surface, error) {
	empty := cohqt.NewSurface(current.Ctx)
	o, err := cohqt.Con(removed, isPresent, empty, current)
	if err != nil {
		return nil, fmt.Errorf("in anthro.PostRemoval: %v", err)
	}
	return o, nil
}

// PostAddition builds the post-project presence surface for a debit
// project, where proposed features are added on top of current
// conditions: where a proposed feature exists its presence wins,
// elsewhere the current presence carries through.
func PostAddition(current, proposed *cohqt.Surface) (*cohqt.Surface, error) {
	o, err := cohqt.Con(proposed, isPresent, proposed, current)
	if err != nil {
		return nil, fmt.Errorf("in anthro.PostAddition: %v", err)
	}
	return o, nil
}

// MergePresence applies the appropriate merge for each subtype that has
// proposed features. Subtypes absent from proposed keep their current
// surfaces. The merge function is PostRemoval for credit projects and
// PostAddition for debit projects.
func MergePresence(current, proposed map[string]*cohqt.Surface,
	merge func(current, proposed *cohqt.Surface) (*cohqt.Surface, error)) (map[string]*cohqt.Surface, error) {
	o := make(map[string]*cohqt.Surface, len(current))
	for subtype, s := range current {
		o[subtype] = s
	}
	for subtype, p := range proposed {
		if p == nil {
			continue
		}
		cur, ok := o[subtype]
		if !ok || cur == nil {
			cur = cohqt.NewSurface(p.Ctx)
		}
		merged, err := merge(cur, p)
		if err != nil {
			return nil, fmt.Errorf("in anthro.MergePresence: subtype %s: %v", subtype, err)
		}
		o[subtype] = merged
	}
	return o, nil
}

func isPresent(v float64) bool { return v != 0 }
