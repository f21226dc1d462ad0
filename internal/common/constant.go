package common

// AccessTokenHeaderName is the HTTP header used to carry the device access
// token on outbound sync requests.
const AccessTokenHeaderName = "Authorization"

const (
	// WebhookSignatureHeader carries the hex HMAC-SHA256 of
	// timestamp + "." + body.
	WebhookSignatureHeader = "x-webhook-signature"
	// WebhookTimestampHeader carries the request unix time in milliseconds.
	WebhookTimestampHeader = "x-webhook-timestamp"
)

// UncategorizedCategoryID is the well-known category assigned to items
// created through the webhook intake path.
const UncategorizedCategoryID = "00000000-0000-0000-0000-000000000001"
