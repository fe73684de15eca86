package i18n

var enUS = map[string]string{
	"error.bad_request":               "Invalid request",
	"error.validation":                "Please check the highlighted fields",
	"error.unauthorized":              "Please sign in to continue",
	"error.forbidden":                 "You do not have access to this resource",
	"error.not_found":                 "Not found",
	"error.internal":                  "Something went wrong, please try again",
	"error.too_many_requests":         "Too many attempts, please try again later",
	"error.artist_profile_missing":    "Please create an artist profile first",
	"error.artist_profile_exists":     "Artist profile already exists",
	"error.subaccount_failed":         "Failed to create subaccount",
	"error.invalid_bank_details":      "Invalid bank details",
	"error.payment_provider":          "Payment provider is unavailable, please try again",
	"error.order_not_found":           "Order not found",
	"error.artwork_not_found":         "Artwork not found",
	"error.invalid_transition":        "Invalid shipping status transition",
	"error.invalid_date_range":        "Start date must be before end date",
	"error.discount_code_exists":      "Discount code already exists",
	"error.upload_failed":             "Failed to upload images",
	"error.preview_failed":            "Failed to process images",
	"error.invalid_credentials":       "Invalid email or password",
	"error.user_disabled":             "This account has been disabled",
	"error.email_exists":              "An account with this email already exists",
	"error.password_min_length":       "Password must be at least %d characters",
	"error.captcha_required":          "Please complete the captcha",
	"error.captcha_invalid":           "Captcha is incorrect",
	"error.captcha_disabled":          "Captcha is not enabled",
	"error.invalid_transition_detail": "Cannot change shipping status from %s to %s",
	"error.auth_header_invalid":       "Authorization header is invalid",
	"error.session_invalid":           "Your session has expired, please sign in again",
	"error.rate_limited":              "Too many attempts, please try again in %d seconds",
	"error.rate_limit_unavailable":    "Rate limiter is unavailable, please try again",
	"error.captcha_config_invalid":    "Captcha is misconfigured",
	"error.artwork_id_invalid":        "Invalid artwork id",
	"error.order_id_invalid":          "Invalid order id",
	"error.date_invalid":              "Dates must use the YYYY-MM-DD format",
	"success.signed_up":               "Account created successfully",
	"success.signed_in":               "Signed in successfully",
	"success.signed_out":              "Signed out",
	"success.bank_validated":          "Bank details validated successfully",
	"success.artist_created":          "Artist profile created successfully",
	"success.artwork_created":         "Artwork created successfully",
	"success.shipping_updated":        "Shipping status updated",
	"success.discount_created":        "Discount created successfully",
}
