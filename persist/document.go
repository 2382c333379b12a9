// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package persist

import (
	"fmt"
	"log/slog"

	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
)

// DefaultDocumentKey is the default document string key
// of the document text.
const DefaultDocumentKey = "instvis.overrides"

// ErrNoStorage is returned when a document has neither attachments
// nor document strings.
var ErrNoStorage = errors.New("persist: document has no attachments or document strings")

// Options are the options of [Save] and [Load].
type Options struct {
	// DocumentKey is the document string key of the document text.
	DocumentKey string

	// PreferDocumentText uses the document text for all instances,
	// even when the document has attachments.
	PreferDocumentText bool
}

func (o *Options) key() string {
	if o.DocumentKey == "" {
		return DefaultDocumentKey
	}
	return o.DocumentKey
}

// channels returns the persistence channels of the document to use.
func (o *Options) channels(doc host.Document) (host.Attachments, host.KeyValueStore) {
	att, _ := doc.(host.Attachments)
	kv, _ := doc.(host.KeyValueStore)
	if o.PreferDocumentText && kv != nil {
		att = nil
	}
	return att, kv
}

// instanceIDs returns the ids of the template instances of the document.
func instanceIDs(doc host.Document) []uuid.UUID {
	var ids []uuid.UUID
	for _, obj := range doc.Objects() {
		if inst, ok := obj.(host.Instance); ok && inst.IsInstance() {
			ids = append(ids, inst.ID())
		}
	}
	return ids
}

// Save writes the overrides of the instances of the document from the
// store: as an attachment of each managed instance, or in the document
// text for instances that cannot hold attachments. Stale attachments and
// document text are removed.
func Save(st *visibility.Store, doc host.Document, opts Options) error {
	if st == nil || doc == nil {
		return nil
	}
	att, kv := opts.channels(doc)
	if att == nil && kv == nil {
		return ErrNoStorage
	}
	stale, _ := doc.(host.Attachments)
	text := map[uuid.UUID]visibility.Overrides{}
	for _, id := range instanceIDs(doc) {
		ov := st.Overrides(id)
		if len(ov) == 0 || att == nil {
			if stale != nil {
				stale.RemoveAttachment(id)
			}
		}
		if len(ov) == 0 {
			continue
		}
		if att != nil && att.SetAttachment(id, Encode(ov)) {
			continue
		}
		text[id] = ov
	}
	if kv == nil {
		if len(text) > 0 {
			return fmt.Errorf("saving %d instances: %w", len(text), ErrNoStorage)
		}
		return nil
	}
	if len(text) == 0 {
		kv.RemoveDocumentString(opts.key())
		return nil
	}
	kv.SetDocumentString(opts.key(), EncodeDocument(text))
	return nil
}

// Load merges the persisted overrides of the instances of the document
// into the store, replacing the overrides of each instance that has any.
// Attachments take precedence over the document text. Entries for ids
// that are not instances of the document are ignored. It returns the
// number of instances loaded.
func Load(st *visibility.Store, doc host.Document, opts Options) (int, error) {
	if st == nil || doc == nil {
		return 0, nil
	}
	att, kv := opts.channels(doc)
	if att == nil && kv == nil {
		return 0, ErrNoStorage
	}
	ids := instanceIDs(doc)
	loaded := map[uuid.UUID]bool{}
	if kv != nil {
		if s, ok := kv.DocumentString(opts.key()); ok {
			sets, dropped := DecodeDocument(s)
			if dropped > 0 {
				slog.Warn("persist: dropped malformed document text", "key", opts.key(), "dropped", dropped)
			}
			known := map[uuid.UUID]bool{}
			for _, id := range ids {
				known[id] = true
			}
			for id, ov := range sets {
				if !known[id] {
					slog.Debug("persist: ignoring overrides of unknown instance", "instance", id)
					continue
				}
				st.Replace(id, ov)
				loaded[id] = true
			}
		}
	}
	if att != nil {
		for _, id := range ids {
			if loadAttachment(st, att, id) {
				loaded[id] = true
			}
		}
	}
	return len(loaded), nil
}

// LoadObject merges the overrides attached to the given object into the
// store, as for an object added to the document with its attachments.
// It returns whether any overrides were loaded.
func LoadObject(st *visibility.Store, doc host.Document, id uuid.UUID) bool {
	att, ok := doc.(host.Attachments)
	if st == nil || !ok {
		return false
	}
	obj, ok := doc.Object(id)
	if !ok {
		return false
	}
	if inst, ok := obj.(host.Instance); !ok || !inst.IsInstance() {
		return false
	}
	return loadAttachment(st, att, id)
}

func loadAttachment(st *visibility.Store, att host.Attachments, id uuid.UUID) bool {
	data, ok := att.Attachment(id)
	if !ok {
		return false
	}
	ov, err := Decode(data)
	switch {
	case errors.Is(err, ErrUnsupportedVersion):
		slog.Warn("persist: skipping attachment", "instance", id, "err", err)
		return false
	case err != nil:
		slog.Warn("persist: damaged attachment, loading what remains", "instance", id, "err", err, "entries", len(ov))
	}
	if len(ov) == 0 {
		return false
	}
	st.Replace(id, ov)
	return true
}
