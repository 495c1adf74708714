package sqlite

import (
	"time"

	portsrepo "github.com/SscSPs/sismog_console/internal/core/ports/repositories"
)

func NewRepositoryProvider(store *Store, sessionSecret string, sessionExpiry time.Duration, attachments portsrepo.AttachmentSigner) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Collections: NewCollectionStore(store),
		Identity:    NewIdentityStore(store, sessionSecret, sessionExpiry),
		Attachments: attachments,
	}
}
