package secretmanager

import (
	"context"
	"fmt"

	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"

	"github.com/gcpeasy/gcpeasy-go/internal/gcpid"
)

// A ResourceOption configures a Secret lifecycle operation.
type ResourceOption func(*resourceOptions)

type resourceOptions struct {
	existsOK   bool
	notFoundOK bool
	labels     map[string]string
}

// WithExistsOK suppresses the conflict error when creating a secret that
// already exists.
func WithExistsOK() ResourceOption {
	return func(o *resourceOptions) { o.existsOK = true }
}

// WithNotFoundOK suppresses the not-found error when deleting a secret
// that does not exist.
func WithNotFoundOK() ResourceOption {
	return func(o *resourceOptions) { o.notFoundOK = true }
}

// WithLabels sets labels on a secret being created.
func WithLabels(labels map[string]string) ResourceOption {
	return func(o *resourceOptions) { o.labels = labels }
}

// Secret is a handle on one secret in the client's project: a client
// reference plus validated identity. Handles hold no remote state.
type Secret struct {
	c   *Client
	id  string
	err error
}

// Secret returns a handle on a secret. Invalid identifiers surface on the
// first operation.
func (c *Client) Secret(secretID string) *Secret {
	s := &Secret{c: c, id: secretID}
	if _, err := gcpid.Secret(secretID); err != nil {
		s.err = err
	}
	return s
}

// Name returns the full "projects/<project>/secrets/<id>" resource path.
func (s *Secret) Name() string {
	return fmt.Sprintf("projects/%s/secrets/%s", s.c.projectID, s.id)
}

// Exists reports whether the secret exists. Only the service's not-found
// error converts to false; anything else is returned.
func (s *Secret) Exists(ctx context.Context) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if _, err := s.c.api.GetSecret(ctx, &secretmanagerpb.GetSecretRequest{Name: s.Name()}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create creates the secret with automatic replication. Recognized
// options: WithLabels, WithExistsOK.
func (s *Secret) Create(ctx context.Context, opts ...ResourceOption) error {
	if s.err != nil {
		return s.err
	}
	var o resourceOptions
	for _, opt := range opts {
		opt(&o)
	}
	_, err := s.c.api.CreateSecret(ctx, &secretmanagerpb.CreateSecretRequest{
		Parent:   "projects/" + s.c.projectID,
		SecretId: s.id,
		Secret: &secretmanagerpb.Secret{
			Labels: o.labels,
			Replication: &secretmanagerpb.Replication{
				Replication: &secretmanagerpb.Replication_Automatic_{
					Automatic: &secretmanagerpb.Replication_Automatic{},
				},
			},
		},
	})
	if err != nil {
		if isConflict(err) && o.existsOK {
			s.c.logger.Debugw("secret already exists", "secret", s.Name())
			return nil
		}
		return err
	}
	return nil
}

// Add stores a new version of the secret and returns its version ID.
func (s *Secret) Add(ctx context.Context, payload []byte) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	version, err := s.c.api.AddSecretVersion(ctx, &secretmanagerpb.AddSecretVersionRequest{
		Parent:  s.Name(),
		Payload: &secretmanagerpb.SecretPayload{Data: payload},
	})
	if err != nil {
		return "", err
	}
	return lastSegment(version.GetName()), nil
}

// Delete deletes the secret and all its versions. Recognized options:
// WithNotFoundOK.
func (s *Secret) Delete(ctx context.Context, opts ...ResourceOption) error {
	if s.err != nil {
		return s.err
	}
	var o resourceOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := s.c.api.DeleteSecret(ctx, &secretmanagerpb.DeleteSecretRequest{Name: s.Name()}); err != nil {
		if isNotFound(err) && o.notFoundOK {
			s.c.logger.Debugw("secret already gone", "secret", s.Name())
			return nil
		}
		return err
	}
	return nil
}

// Value retrieves the secret's payload as decoded text, like Client.Get.
func (s *Secret) Value(ctx context.Context, opts ...GetOption) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.c.Get(ctx, s.id, opts...)
}

// Versions lists the secret's version IDs.
func (s *Secret) Versions(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.c.Versions(ctx, s.id)
}
