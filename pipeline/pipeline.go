// Package pipeline drives bounded-concurrency upload and refresh streams
// over a finite set of file paths, the core end-to-end operation this
// module exists to provide. Every transaction, data included, is posted
// whole in a single request; there is no resumable per-chunk upload.
package pipeline

import (
	"context"
	"errors"
	"log"
	"os"
	"sync"
	"time"

	"github.com/liteseed/arcore/arcrypto"
	"github.com/liteseed/arcore/arerr"
	"github.com/liteseed/arcore/base64url"
	"github.com/liteseed/arcore/contenttype"
	"github.com/liteseed/arcore/gateway"
	"github.com/liteseed/arcore/status"
	"github.com/liteseed/arcore/tag"
	"github.com/liteseed/arcore/transaction"
	"github.com/panjf2000/ants/v2"
)

// Config configures a Driver's upload behavior.
type Config struct {
	// AdditionalTags are appended after the sniffed Content-Type tag.
	AdditionalTags []tag.Tag
	// LastTx, when set, is used for every upload instead of fetching a
	// fresh anchor per file.
	LastTx *base64url.Value
	// Reward, when set, is used for every upload instead of querying the
	// gateway's price endpoint per file.
	Reward *string
	// Buffer bounds how many uploads or refreshes run concurrently.
	// Defaults to 1 when <= 0.
	Buffer int
}

// Driver wires a gateway client, a signing key, and a status store together
// to run the upload/refresh streams.
type Driver struct {
	Gateway *gateway.Client
	Signer  *arcrypto.Provider
	Store   *status.Store
	Config  Config
	Log     *log.Logger
}

// New builds a Driver. store may be nil; in that case UploadOne does not
// persist a status record and RefreshOne always fails.
func New(gw *gateway.Client, signer *arcrypto.Provider, store *status.Store, cfg Config) *Driver {
	return &Driver{Gateway: gw, Signer: signer, Store: store, Config: cfg, Log: log.Default()}
}

func (d *Driver) buffer() int {
	if d.Config.Buffer <= 0 {
		return 1
	}
	return d.Config.Buffer
}

// Result is one completed upload or refresh.
type Result struct {
	Path   string
	Status status.Status
	Err    error
}

// UploadOne builds, signs, and posts a single file, recording its status
// when a store is configured.
func (d *Driver) UploadOne(ctx context.Context, path string) (status.Status, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return status.Status{}, arerr.New(arerr.IO, "pipeline.UploadOne", err)
	}

	tags := contenttype.Tags(data, d.Config.AdditionalTags)
	tx, err := transaction.CreateFromFile(ctx, data, d.Signer.Owner(), tags, d.Config.LastTx, d.Config.Reward, d.Gateway)
	if err != nil {
		return status.Status{}, err
	}

	if err := tx.Sign(d.Signer); err != nil {
		return status.Status{}, err
	}

	if err := d.Gateway.PostTransaction(ctx, tx); err != nil {
		return status.Status{}, err
	}

	now := time.Now().UTC()
	st := status.Status{
		ID:           tx.ID,
		Status:       status.Submitted,
		FilePath:     path,
		CreatedAt:    now,
		LastModified: now,
		Reward:       tx.Reward,
	}
	if d.Store != nil {
		if err := d.Store.Write(st); err != nil {
			return st, err
		}
	}
	d.Log.Printf("pipeline: uploaded %s as %s", path, tx.ID.String())
	return st, nil
}

// RefreshOne re-polls the gateway for a previously uploaded file's status
// and merges the result: a "Pending" body clears any stale raw status, a
// 404 marks NotFound, a confirmed JSON body records the raw status and
// advances the state to Confirmed. created_at is never touched;
// last_modified always advances.
func (d *Driver) RefreshOne(ctx context.Context, path string) (status.Status, error) {
	if d.Store == nil {
		return status.Status{}, arerr.New(arerr.InvalidInput, "pipeline.RefreshOne", errors.New("no status store configured"))
	}
	current, err := d.Store.Read(path)
	if err != nil {
		return status.Status{}, err
	}

	raw, err := d.Gateway.GetRawStatus(ctx, current.ID.String())
	if err != nil {
		return current, err
	}

	updated := current
	updated.LastModified = time.Now().UTC()
	switch {
	case raw.NotFound:
		updated.Status = status.NotFound
		updated.RawStatus = nil
	case raw.Pending:
		updated.Status = status.Pending
		updated.RawStatus = nil
	default:
		updated.Status = status.Confirmed
		updated.RawStatus = raw.Raw
	}

	if err := d.Store.Write(updated); err != nil {
		return updated, err
	}
	d.Log.Printf("pipeline: refreshed %s -> %s", path, updated.Status)
	return updated, nil
}

// UploadStream runs UploadOne over paths with at most Config.Buffer in
// flight at once, emitting each Result as soon as it completes rather than
// in input order.
func (d *Driver) UploadStream(ctx context.Context, paths []string) <-chan Result {
	return d.stream(ctx, paths, d.UploadOne)
}

// RefreshStream is UploadStream's counterpart for RefreshOne.
func (d *Driver) RefreshStream(ctx context.Context, paths []string) <-chan Result {
	return d.stream(ctx, paths, d.RefreshOne)
}

func (d *Driver) stream(ctx context.Context, paths []string, op func(context.Context, string) (status.Status, error)) <-chan Result {
	out := make(chan Result)
	var wg sync.WaitGroup

	pool, poolErr := ants.NewPoolWithFunc(d.buffer(), func(arg interface{}) {
		defer wg.Done()
		p := arg.(string)
		st, err := op(ctx, p)
		out <- Result{Path: p, Status: st, Err: err}
	})

	go func() {
		defer close(out)
		if poolErr != nil {
			for _, p := range paths {
				out <- Result{Path: p, Err: arerr.New(arerr.InvalidInput, "pipeline.stream", poolErr)}
			}
			return
		}
		defer pool.Release()

		for _, p := range paths {
			wg.Add(1)
			if err := pool.Invoke(p); err != nil {
				wg.Done()
				out <- Result{Path: p, Err: arerr.New(arerr.InvalidInput, "pipeline.stream", err)}
				continue
			}
		}
		wg.Wait()
	}()

	return out
}

// FilterStatuses reads the status records for paths and returns those
// matching target/minConfirms.
func (d *Driver) FilterStatuses(paths []string, target status.Code, minConfirms *int64) ([]status.Status, error) {
	if d.Store == nil {
		return nil, arerr.New(arerr.InvalidInput, "pipeline.FilterStatuses", errors.New("no status store configured"))
	}
	all, err := d.Store.ReadAll(paths)
	if err != nil {
		return nil, err
	}
	return status.Filter(all, target, minConfirms), nil
}
