package domain

// Roles from the remote profiles table.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Payment lifecycle of a registration.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentWaived  = "waived"
)

// Accepted payment methods.
const (
	MethodCash  = "cash"
	MethodBizum = "bizum"
	MethodOther = "other"
)

// Outbox target tables.
const (
	TableParticipants  = "participants"
	TableRegistrations = "registrations"
)

// Outbox operations.
const (
	OpUpsert         = "upsert"
	OpDelete         = "delete"
	OpRegisterRemote = "registerRemote"
	OpCancelRemote   = "cancelRemote"
)

// Outbox entry status. Entries are append-only; status is the only mutable
// column and only ever moves blocked_on_auth -> pending.
const (
	OutboxPending       = "pending"
	OutboxBlockedOnAuth = "blocked_on_auth"
)

// Bus topics.
const (
	TopicOutboxChanged = "outbox-changed"
	TopicAuthStable    = "auth-stable"
	TopicStoreChanged  = "store-changed" // published as "store-changed:<table>"
)

// KeyLastPullAt is the kv watermark for incremental pulls.
const KeyLastPullAt = "lastPullAt"

// UnknownParticipantName is the denormalized fallback shown when a pulled
// registration has no locally resolvable participant name.
const UnknownParticipantName = "(desconocido)"
