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
	"time"

	"github.com/linkmint/linkmint/model"
)

// OrderWebhook is the inbound order-settled payload. Amount is a decimal
// string in major units ("250.00"); it becomes integer cents at this
// edge and stays integer from then on.
type OrderWebhook struct {
	OrderID   string            `json:"order_id"`
	StoreID   string            `json:"store_id"`
	Amount    string            `json:"amount"`
	Currency  string            `json:"currency"`
	SettledAt time.Time         `json:"settled_at"`
	MetaData  map[string]string `json:"metadata"`
}

func (o *OrderWebhook) ToOrderEvent() (*model.OrderEvent, error) {
	cents, err := model.ParseAmount(o.Amount)
	if err != nil {
		return nil, err
	}
	return &model.OrderEvent{
		OrderID:    o.OrderID,
		StoreID:    o.StoreID,
		OrderValue: cents,
		Currency:   o.Currency,
		SettledAt:  o.SettledAt,
		MetaData:   o.MetaData,
	}, nil
}
