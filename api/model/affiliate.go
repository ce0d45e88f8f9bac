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

type CreateAffiliate struct {
	StoreID        string                 `json:"store_id"`
	Email          string                 `json:"email"`
	Name           string                 `json:"name"`
	Website        string                 `json:"website"`
	CommissionRate string                 `json:"commission_rate"`
	MetaData       map[string]interface{} `json:"meta_data"`
	Application    *Application           `json:"application"`
}

// Application mirrors the optional recruitment material attached to a
// new affiliate.
type Application struct {
	Website         string `json:"website"`
	SocialFollowers int64  `json:"social_followers"`
	Niche           string `json:"niche"`
	Pitch           string `json:"pitch"`
}

type UpdateAffiliateStatus struct {
	Status string `json:"status"`
}

type UpdateCommissionRate struct {
	CommissionRate string `json:"commission_rate"`
}

// ToAffiliate converts the request into the domain affiliate plus the
// optional scoring application. The percent string becomes basis points
// here; nothing downstream touches floats.
func (a *CreateAffiliate) ToAffiliate() (model.Affiliate, *model.AffiliateApplication, error) {
	rateBps, err := model.ParsePercent(a.CommissionRate)
	if err != nil {
		return model.Affiliate{}, nil, err
	}

	affiliate := model.Affiliate{
		StoreID:       a.StoreID,
		Email:         a.Email,
		Name:          a.Name,
		Website:       a.Website,
		CommissionBps: rateBps,
		MetaData:      a.MetaData,
	}

	var application *model.AffiliateApplication
	if a.Application != nil {
		application = &model.AffiliateApplication{
			Email:           a.Email,
			Website:         a.Application.Website,
			SocialFollowers: a.Application.SocialFollowers,
			Niche:           a.Application.Niche,
			Pitch:           a.Application.Pitch,
		}
	}

	return affiliate, application, nil
}
