package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ogurasousui/employee-record-store/internal/core/employee"
)

type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	putErr  error
	lastCT  string
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: make(map[string][]byte)}
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.objects[*in.Bucket+"/"+*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[*in.Bucket+"/"+*in.Key] = b
	if in.ContentType != nil {
		f.lastCT = *in.ContentType
	}
	return &s3.PutObjectOutput{}, nil
}

func TestStore_LoadMissingObject(t *testing.T) {
	t.Parallel()

	store := newWithClient(newFakeObjects(), "bucket", "")
	records, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected empty collection, got %d", len(records))
	}
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	objects := newFakeObjects()
	store := newWithClient(objects, "bucket", "snapshots/employees.json")

	want := []employee.Record{
		{ID: 5, EmployeeName: "E", Department: employee.DepartmentSales, Position: "Rep", HireDate: "2021-07-07",
			Email: "e@corp.net", MobileNumber: "0123456789", PermanentAddress: "Lane", Nationality: "Q",
			EmployeeType: employee.EmployeeTypeContract, IsActive: true},
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, ok := objects.objects["bucket/snapshots/employees.json"]; !ok {
		t.Fatalf("expected object under configured key, got %v", objects.objects)
	}
	if objects.lastCT != contentType {
		t.Fatalf("expected content type %s, got %s", contentType, objects.lastCT)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\nwant %+v\ngot  %+v", want, got)
	}
}

func TestStore_SaveError(t *testing.T) {
	t.Parallel()

	objects := newFakeObjects()
	objects.putErr = errors.New("access denied")
	store := newWithClient(objects, "bucket", "")

	if err := store.Save(context.Background(), nil); !errors.Is(err, objects.putErr) {
		t.Fatalf("expected put error, got %v", err)
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	t.Parallel()

	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatal("expected error without bucket")
	}
}
