package model

// EmailAccount is a mailbox registered for transaction import. The
// password lives in the system keyring under the address key; only the
// address and provider name are stored in the database.
type EmailAccount struct {
	UserID   string
	Address  string
	Provider string
}

// Watermark records the last successfully processed message UID for a
// (mailbox, folder) pair. It only ever moves forward.
type Watermark struct {
	Address string
	Folder  string
	LastUID uint32
}
