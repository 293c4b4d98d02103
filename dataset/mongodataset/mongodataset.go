/*
Package mongodataset reads datasets from and writes them to a MongoDB
database, with a document per row on its samples collection.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/kstoi/arbor/dataset"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	samplesCollectionName = "samples"
	idField               = "_id"
	orderField            = "_n"
)

/*
Store keeps datasets on the samples collection of the default database of
a MongoDB session.
*/
type Store struct {
	session *mgo.Session
}

/*
Open takes a MongoDB database session and returns a Store that works on the
default database for that session.
*/
func Open(session *mgo.Session) *Store {
	return &Store{session}
}

/*
Dial takes a MongoDB connection URL and returns a Store that works on the
database named in it or an error if it fails to connect to it.
*/
func Dial(url string) (*Store, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %v", err)
	}
	return Open(session), nil
}

/*
Close closes the session of the store
*/
func (s *Store) Close() {
	s.session.Close()
}

/*
Write takes a context and a dataset and inserts a document per row on the
samples collection, with a field per attribute in attribute order. It
returns the number of rows written or an error.
*/
func (s *Store) Write(ctx context.Context, ds *dataset.Dataset) (int, error) {
	for _, a := range ds.Attributes() {
		if err := ValidateAttributeName(a); err != nil {
			return 0, err
		}
	}
	c := s.samplesCollection()
	err := c.EnsureIndex(mgo.Index{Key: []string{orderField}, Background: true})
	if err != nil {
		return 0, err
	}
	offset, err := c.Count()
	if err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, ds.Count())
	for i, r := range ds.Rows() {
		doc := make(bson.D, 0, len(ds.Attributes())+1)
		for _, a := range ds.Attributes() {
			doc = append(doc, bson.DocElem{Name: a, Value: r[a]})
		}
		doc = append(doc, bson.DocElem{Name: orderField, Value: offset + i})
		docs = append(docs, doc)
	}
	if err = ctx.Err(); err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err = c.Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

/*
Read takes a context and a missing value and returns the dataset on the
samples collection, in insertion order. The attributes are the fields of
the first document, in order. Absent or null fields take the missing value
(or dataset.DefaultMissingValue if it is empty).
*/
func (s *Store) Read(ctx context.Context, missing string) (*dataset.Dataset, error) {
	var attributes []string
	var rows []dataset.Row
	docs, errs := s.Iterate(ctx)
	for doc := range docs {
		if attributes == nil {
			attributes = AttributesOf(doc)
		}
		rows = append(rows, RowFrom(doc, attributes, missing))
	}
	if err := <-errs; err != nil {
		return nil, err
	}
	if attributes == nil {
		return nil, fmt.Errorf("no samples found")
	}
	return dataset.New(attributes, rows)
}

/*
Iterate takes a context and returns a channel on which the documents of the
samples collection are sent, in insertion order, and a channel on which
an error is sent if the iteration fails. Both channels are closed once the
iteration ends.
*/
func (s *Store) Iterate(ctx context.Context) (<-chan bson.D, <-chan error) {
	docs := make(chan bson.D)
	errs := make(chan error, 1)
	go func() {
		defer close(docs)
		defer close(errs)
		var err error
		iter := s.samplesCollection().Find(nil).Sort(orderField).Iter()
		var doc bson.D
	loop:
		for iter.Next(&doc) {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			case docs <- doc:
			}
			doc = nil
		}
		if cerr := iter.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			errs <- err
		}
	}()
	return docs, errs
}

func (s *Store) samplesCollection() *mgo.Collection {
	return s.session.DB("").C(samplesCollectionName)
}

/*
AttributesOf returns the names of the fields of the given document but the
internal ones, in order.
*/
func AttributesOf(doc bson.D) []string {
	var attributes []string
	for _, e := range doc {
		if e.Name != idField && e.Name != orderField {
			attributes = append(attributes, e.Name)
		}
	}
	return attributes
}

/*
RowFrom takes a document, the attributes to read from it and a missing
value and returns a row with the value of every attribute formatted as a
string. Absent, null and undefined ('?') values take the missing value (or
dataset.DefaultMissingValue if it is empty).
*/
func RowFrom(doc bson.D, attributes []string, missing string) dataset.Row {
	if missing == "" {
		missing = dataset.DefaultMissingValue
	}
	m := doc.Map()
	row := make(dataset.Row, len(attributes))
	for _, a := range attributes {
		v, ok := m[a]
		switch {
		case !ok || v == nil:
			row[a] = missing
		default:
			s := fmt.Sprintf("%v", v)
			if s == dataset.UndefinedValue {
				s = missing
			}
			row[a] = s
		}
	}
	return row
}

/*
ValidateAttributeName returns an error if the given attribute name cannot
be a field of a document on the samples collection.
*/
func ValidateAttributeName(name string) error {
	if name == idField || name == orderField {
		return fmt.Errorf("invalid attribute name %q: reserved collection field", name)
	}
	if name == "" || strings.ContainsAny(name, ".$") {
		return fmt.Errorf("invalid attribute name %q: empty or contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}
