package bq

import (
	"context"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/gcpeasy/gcpeasy-go/internal/gcpid"
)

// Dataset is a handle on one dataset: a client reference plus validated
// identity. Handles hold no remote state; every method is a fresh call.
type Dataset struct {
	c         *Client
	projectID string
	datasetID string
	err       error
}

// Dataset returns a handle on a dataset in the client's project. Invalid
// identifiers surface on the first operation.
func (c *Client) Dataset(datasetID string) *Dataset {
	return c.DatasetInProject(c.projectID, datasetID)
}

// DatasetInProject returns a handle on a dataset in another project.
func (c *Client) DatasetInProject(projectID, datasetID string) *Dataset {
	d := &Dataset{c: c, projectID: projectID, datasetID: datasetID}
	if _, err := gcpid.Project(projectID); err != nil {
		d.err = err
		return d
	}
	if _, err := gcpid.Generic(datasetID, "dataset ID"); err != nil {
		d.err = err
	}
	return d
}

// ID returns the fully qualified "project.dataset" ID.
func (d *Dataset) ID() string {
	return d.projectID + "." + d.datasetID
}

func (d *Dataset) bq() *bigquery.Dataset {
	return d.c.gcp.DatasetInProject(d.projectID, d.datasetID)
}

// Exists reports whether the dataset exists. Only the service's not-found
// error converts to false; anything else is returned.
func (d *Dataset) Exists(ctx context.Context) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if _, err := d.bq().Metadata(ctx); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Tables lists table IDs in the dataset. A positive maxResults limits the
// listing; zero returns everything.
func (d *Dataset) Tables(ctx context.Context, maxResults int) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	it := d.bq().Tables(ctx)
	var ids []string
	for {
		if maxResults > 0 && len(ids) >= maxResults {
			break
		}
		t, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.TableID)
	}
	return ids, nil
}

// Create creates the dataset. Recognized options: WithLocation,
// WithDescription, WithTableExpiration, WithExistsOK.
func (d *Dataset) Create(ctx context.Context, opts ...Option) error {
	if d.err != nil {
		return d.err
	}
	co := newCallOptions(opts)
	md := &bigquery.DatasetMetadata{Location: co.location}
	if co.description != nil {
		md.Description = *co.description
	}
	if co.tableExpiration != nil {
		md.DefaultTableExpiration = *co.tableExpiration
	}
	if err := d.bq().Create(ctx, md); err != nil {
		if isConflict(err) && co.existsOK {
			d.c.logger.Debugw("dataset already exists", "dataset", d.ID())
			return nil
		}
		return err
	}
	return nil
}

// Delete deletes the dataset. Recognized options: WithDeleteContents,
// WithNotFoundOK.
func (d *Dataset) Delete(ctx context.Context, opts ...Option) error {
	if d.err != nil {
		return d.err
	}
	co := newCallOptions(opts)
	var err error
	if co.deleteContents {
		err = d.bq().DeleteWithContents(ctx)
	} else {
		err = d.bq().Delete(ctx)
	}
	if err != nil {
		if isNotFound(err) && co.notFoundOK {
			d.c.logger.Debugw("dataset already gone", "dataset", d.ID())
			return nil
		}
		return err
	}
	return nil
}

// Metadata fetches the dataset's metadata from the service.
func (d *Dataset) Metadata(ctx context.Context) (*bigquery.DatasetMetadata, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.bq().Metadata(ctx)
}

// Update sends a partial update containing only the options that were
// given: WithDescription, WithLabels, WithTableExpiration. With no
// options it is a no-op.
func (d *Dataset) Update(ctx context.Context, opts ...Option) error {
	if d.err != nil {
		return d.err
	}
	co := newCallOptions(opts)
	var mdu bigquery.DatasetMetadataToUpdate
	changed := false
	if co.description != nil {
		mdu.Description = *co.description
		changed = true
	}
	if co.tableExpiration != nil {
		mdu.DefaultTableExpiration = *co.tableExpiration
		changed = true
	}
	for k, v := range co.labels {
		mdu.SetLabel(k, v)
		changed = true
	}
	if !changed {
		return nil
	}
	_, err := d.bq().Update(ctx, mdu, "")
	return err
}
