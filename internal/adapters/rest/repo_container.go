package rest

import (
	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the collection and identity clients of the
// hosted data service. Attachments are signed by a separate store.
func NewRepositoryProvider(client *Client, attachments portsrepo.AttachmentSigner) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Collections: NewCollectionClient(client),
		Identity:    NewIdentityClient(client),
		Attachments: attachments,
	}
}
