/*
Copyright 2024 Linkmint Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package model

import (
	"github.com/linkmint/linkmint/model"
)

type RunPayoutBatch struct {
	StoreID       string   `json:"store_id"`
	AffiliateIDs  []string `json:"affiliate_ids"`
	MinimumAmount string   `json:"minimum_amount"`
	Method        string   `json:"method"`
}

// MinimumCents parses the optional minimum payout amount. Empty means
// use the configured default.
func (p *RunPayoutBatch) MinimumCents() (int64, error) {
	if p.MinimumAmount == "" {
		return 0, nil
	}
	return model.ParseAmount(p.MinimumAmount)
}
