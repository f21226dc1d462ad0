// Package cli implements the interactive console for the tabstock agent.
// It is thin glue over the inventory service and the sync engine; all
// business rules live in internal/device/services.
package cli
