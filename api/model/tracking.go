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

type CreateTrackingLink struct {
	AffiliateID string `json:"affiliate_id"`
	OriginalURL string `json:"original_url"`
	UTMSource   string `json:"utm_source"`
	UTMMedium   string `json:"utm_medium"`
	UTMCampaign string `json:"utm_campaign"`
}

// ToCampaign returns the optional UTM block, nil when empty.
func (l *CreateTrackingLink) ToCampaign() *model.Campaign {
	if l.UTMSource == "" && l.UTMMedium == "" && l.UTMCampaign == "" {
		return nil
	}
	return &model.Campaign{
		Source:   l.UTMSource,
		Medium:   l.UTMMedium,
		Campaign: l.UTMCampaign,
	}
}
