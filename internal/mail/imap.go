package mail

import (
	"fmt"
	"sort"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
)

// imapConn implements Conn on top of go-imap v2.
type imapConn struct {
	client *imapclient.Client
}

// dialIMAP connects to addr over implicit TLS and authenticates.
func dialIMAP(addr, username, password string) (Conn, error) {
	client, err := imapclient.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(username, password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("authenticating %s: %w", username, err)
	}

	return &imapConn{client: client}, nil
}

// ListFolders returns folder names exactly as the provider lists them.
func (c *imapConn) ListFolders() ([]string, error) {
	listCmd := c.client.List("", "*", nil)

	mailboxes, err := listCmd.Collect()
	if err != nil {
		return nil, fmt.Errorf("listing folders: %w", err)
	}

	folders := make([]string, 0, len(mailboxes))
	for _, mbox := range mailboxes {
		folders = append(folders, mbox.Mailbox)
	}
	return folders, nil
}

// Select opens a folder and returns its message count.
func (c *imapConn) Select(folder string) (uint32, error) {
	data, err := c.client.Select(folder, nil).Wait()
	if err != nil {
		return 0, fmt.Errorf("selecting %q: %w", folder, err)
	}
	return data.NumMessages, nil
}

// SearchUIDs returns the UIDs after the given watermark, ascending.
func (c *imapConn) SearchUIDs(after uint32) ([]uint32, error) {
	criteria := &imap.SearchCriteria{}
	if after > 0 {
		criteria.UID = []imap.UIDSet{
			{imap.UIDRange{Start: imap.UID(after + 1), Stop: 0}},
		}
	}

	searchData, err := c.client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching after uid %d: %w", after, err)
	}

	raw := searchData.AllUIDs()
	uids := make([]uint32, 0, len(raw))
	for _, uid := range raw {
		uids = append(uids, uint32(uid))
	}

	// Servers are not required to return UIDs in order.
	sort.Slice(uids, func(i, j int) bool { return uids[i] < uids[j] })

	return uids, nil
}

// FetchMessage retrieves one message's envelope headers and raw body.
func (c *imapConn) FetchMessage(uid uint32) (*RawMessage, error) {
	uidSet := imap.UIDSetNum(imap.UID(uid))

	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}

	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := c.client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	msg := fetchCmd.Next()
	if msg == nil {
		return nil, fmt.Errorf("message UID %d not found", uid)
	}

	buf, err := msg.Collect()
	if err != nil {
		return nil, fmt.Errorf("collecting message data: %w", err)
	}

	raw := &RawMessage{UID: uint32(buf.UID)}
	if buf.Envelope != nil {
		raw.Subject = buf.Envelope.Subject
		raw.Date = buf.Envelope.Date
	}
	raw.Body = buf.FindBodySection(bodySection)

	if err := fetchCmd.Close(); err != nil {
		return raw, fmt.Errorf("closing fetch: %w", err)
	}

	return raw, nil
}

// Logout ends the IMAP session.
func (c *imapConn) Logout() error {
	return c.client.Logout().Wait()
}
