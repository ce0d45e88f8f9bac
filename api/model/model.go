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
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/linkmint/linkmint/model"
)

func (a *CreateAffiliate) ValidateCreateAffiliate() error {
	return validation.ValidateStruct(a,
		validation.Field(&a.StoreID, validation.Required),
		validation.Field(&a.Email, validation.Required, is.Email),
		validation.Field(&a.CommissionRate, validation.Required),
	)
}

func (s *UpdateAffiliateStatus) ValidateUpdateAffiliateStatus() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Status, validation.Required, validation.By(func(value interface{}) error {
			status, _ := value.(string)
			if !model.ValidStatus(status) {
				return errors.New("status must be one of pending, active, suspended, banned")
			}
			return nil
		})),
	)
}

func (r *UpdateCommissionRate) ValidateUpdateCommissionRate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CommissionRate, validation.Required),
	)
}

func (l *CreateTrackingLink) ValidateCreateTrackingLink() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.AffiliateID, validation.Required),
		validation.Field(&l.OriginalURL, validation.Required, is.URL),
	)
}

func (o *OrderWebhook) ValidateOrderWebhook() error {
	return validation.ValidateStruct(o,
		validation.Field(&o.OrderID, validation.Required),
		validation.Field(&o.StoreID, validation.Required),
		validation.Field(&o.Amount, validation.Required),
	)
}

func (p *RunPayoutBatch) ValidateRunPayoutBatch() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.StoreID, validation.Required),
		validation.Field(&p.AffiliateIDs, validation.Required, validation.Length(1, 0)),
	)
}
