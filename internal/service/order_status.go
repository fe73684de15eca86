package service

import "github.com/artmart-next/internal/constants"

// shippingTransitions 发货状态合法流转表，DELIVERED 为终态
var shippingTransitions = map[string]string{
	constants.ShippingStatusPending: constants.ShippingStatusShipped,
	constants.ShippingStatusShipped: constants.ShippingStatusDelivered,
}

// CanTransitionShipping 判断发货状态流转是否合法
func CanTransitionShipping(from, to string) bool {
	next, ok := shippingTransitions[from]
	return ok && next == to
}

// IsShippingTarget 判断是否为可请求的目标状态
func IsShippingTarget(status string) bool {
	return status == constants.ShippingStatusShipped || status == constants.ShippingStatusDelivered
}
