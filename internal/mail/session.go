package mail

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// RawMessage is one fetched message: identity, the two headers the
// import pipeline reads, and the undecoded MIME body. It is discarded
// after parsing.
type RawMessage struct {
	UID     uint32
	Subject string
	Date    time.Time
	Body    []byte
}

// Conn is one authenticated IMAP connection. Implementations must
// return folder names verbatim from the provider's listing so that
// later Select calls do not hit encoding mismatches.
type Conn interface {
	// ListFolders returns the names of all folders in the mailbox.
	ListFolders() ([]string, error)

	// Select opens a folder and returns its message count.
	Select(folder string) (uint32, error)

	// SearchUIDs returns the UIDs of messages in the selected folder
	// with UID strictly greater than after, in ascending order.
	// after == 0 means all messages, since provider-assigned UIDs are
	// not guaranteed to start at any particular value.
	SearchUIDs(after uint32) ([]uint32, error)

	// FetchMessage retrieves one message's headers and full body.
	FetchMessage(uid uint32) (*RawMessage, error)

	// Logout ends the connection.
	Logout() error
}

// DialFunc establishes a fresh authenticated connection.
type DialFunc func() (Conn, error)

// Session wraps an IMAP connection with transparent recovery: when an
// operation fails with a protocol-abort class of error, the session
// logs out, re-authenticates, and retries the operation exactly once.
// A second failure propagates to the caller, so a truly broken
// credential cannot cause an infinite reconnect loop.
type Session struct {
	dial DialFunc
	conn Conn

	// folder is re-selected after a re-authentication so retried
	// operations run against the same mailbox state.
	folder string
}

// NewSession creates a session that connects using dial. No
// connection is made until the first operation.
func NewSession(dial DialFunc) *Session {
	return &Session{dial: dial}
}

// Dial returns a DialFunc for the given mailbox. The provider (and
// with it the IMAP host) is derived from the address domain; unknown
// domains fail here, before any connection is attempted.
func Dial(address, password string) (DialFunc, error) {
	provider, err := ProviderForAddress(address)
	if err != nil {
		return nil, err
	}
	return func() (Conn, error) {
		return dialIMAP(provider.Host(), address, password)
	}, nil
}

// ListFolders enumerates the mailbox's folders.
func (s *Session) ListFolders() ([]string, error) {
	var folders []string
	err := s.do(func(c Conn) error {
		var opErr error
		folders, opErr = c.ListFolders()
		return opErr
	})
	return folders, err
}

// SelectFolder opens a folder and returns its message count.
func (s *Session) SelectFolder(folder string) (uint32, error) {
	var count uint32
	err := s.do(func(c Conn) error {
		var opErr error
		count, opErr = c.Select(folder)
		return opErr
	})
	if err != nil {
		return 0, err
	}
	s.folder = folder
	return count, nil
}

// SearchUIDs returns the UIDs in the selected folder strictly greater
// than after, ascending. With after == 0 it returns all UIDs.
func (s *Session) SearchUIDs(after uint32) ([]uint32, error) {
	var uids []uint32
	err := s.do(func(c Conn) error {
		var opErr error
		uids, opErr = c.SearchUIDs(after)
		return opErr
	})
	return uids, err
}

// FetchMessage retrieves one message by UID from the selected folder.
func (s *Session) FetchMessage(uid uint32) (*RawMessage, error) {
	var msg *RawMessage
	err := s.do(func(c Conn) error {
		var opErr error
		msg, opErr = c.FetchMessage(uid)
		return opErr
	})
	return msg, err
}

// Close logs out of the current connection, if any.
func (s *Session) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Logout()
	s.conn = nil
	return err
}

// do runs op against the current connection, reconnecting and
// retrying once when the connection was aborted mid-operation.
func (s *Session) do(op func(Conn) error) error {
	if s.conn == nil {
		if err := s.reconnect(); err != nil {
			return err
		}
	}

	err := op(s.conn)
	if err == nil || !isProtocolAbort(err) {
		return err
	}

	if recErr := s.reconnect(); recErr != nil {
		return fmt.Errorf("recovering aborted session: %w", recErr)
	}

	return op(s.conn)
}

// reconnect drops the current connection and dials a fresh one,
// re-selecting the previously selected folder.
func (s *Session) reconnect() error {
	if s.conn != nil {
		_ = s.conn.Logout()
		s.conn = nil
	}

	conn, err := s.dial()
	if err != nil {
		return err
	}
	s.conn = conn

	if s.folder != "" {
		if _, err := conn.Select(s.folder); err != nil {
			return fmt.Errorf("re-selecting %q: %w", s.folder, err)
		}
	}

	return nil
}

// isProtocolAbort reports whether err looks like a dropped or aborted
// connection, as opposed to a server-side NO/BAD response.
func isProtocolAbort(err error) bool {
	if errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := err.Error()
	return strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "broken pipe")
}
