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

package zonal

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// FunctionalAcres computes Acres × (pre − post) for each zone and writes
// it under the output field name. The sign convention is the caller's:
// computed from credit-project fields the result is a benefit, from
// debit-project fields an impact. Each zone's delta is logged for audit.
func FunctionalAcres(zones []*Zone, preField, postField, outField string) error {
	for _, z := range zones {
		acres, err := z.Attr(AcresField)
		if err != nil {
			return fmt.Errorf("in zonal.FunctionalAcres: %v", err)
		}
		pre, err := z.Attr(preField)
		if err != nil {
			return fmt.Errorf("in zonal.FunctionalAcres: %v", err)
		}
		post, err := z.Attr(postField)
		if err != nil {
			return fmt.Errorf("in zonal.FunctionalAcres: %v", err)
		}
		v := acres * (pre - post)
		z.SetAttr(outField, v)
		logrus.WithFields(logrus.Fields{
			"map_unit": z.ID,
			"acres":    acres,
			preField:   pre,
			postField:  post,
		}).Infof("%s = %g", outField, v)
	}
	return nil
}
