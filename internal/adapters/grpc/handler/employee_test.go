package handler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ogurasousui/employee-record-store/internal/adapters/grpc/employeev1"
	"github.com/ogurasousui/employee-record-store/internal/adapters/snapshot/file"
	"github.com/ogurasousui/employee-record-store/internal/core/employee"
)

type stubEmployeeUseCase struct {
	listOut []employee.Record

	getID  int64
	getOut employee.Record
	getErr error

	createFields employee.Fields
	createOut    employee.Record
	createErr    error

	updateID     int64
	updateFields employee.Fields
	updateOut    employee.Record
	updateErr    error

	deleteID  int64
	deleteErr error
}

func (s *stubEmployeeUseCase) List(context.Context) []employee.Record {
	return s.listOut
}

func (s *stubEmployeeUseCase) Get(_ context.Context, id int64) (employee.Record, error) {
	s.getID = id
	return s.getOut, s.getErr
}

func (s *stubEmployeeUseCase) Create(_ context.Context, fields employee.Fields) (employee.Record, error) {
	s.createFields = fields
	return s.createOut, s.createErr
}

func (s *stubEmployeeUseCase) Update(_ context.Context, id int64, fields employee.Fields) (employee.Record, error) {
	s.updateID = id
	s.updateFields = fields
	return s.updateOut, s.updateErr
}

func (s *stubEmployeeUseCase) Delete(_ context.Context, id int64) error {
	s.deleteID = id
	return s.deleteErr
}

func sampleRecord(id int64) employee.Record {
	return employee.Record{
		ID:               id,
		EmployeeName:     "Asha Rao",
		Department:       employee.DepartmentEngineering,
		Position:         "Engineer",
		HireDate:         "2021-04-01",
		Email:            "asha@example.com",
		MobileNumber:     "9876543210",
		PermanentAddress: "12 Lake Road",
		Nationality:      "Indian",
		EmployeeType:     employee.EmployeeTypeFullTime,
		IsActive:         true,
	}
}

func sampleRequest(t *testing.T) *structpb.Struct {
	t.Helper()

	s, err := structpb.NewStruct(map[string]any{
		"employee_name":     "Asha Rao",
		"department":        "Engineering",
		"position":          "Engineer",
		"hire_date":         "2021-04-01",
		"email":             "asha@example.com",
		"mobile_number":     "9876543210",
		"permanent_address": "12 Lake Road",
		"nationality":       "Indian",
		"employee_type":     "Full-time",
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	return s
}

func TestEmployeeGrpcHandler_CreateEmployee_Success(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{createOut: sampleRecord(1)}
	handler := NewEmployeeGrpcHandler(stub)

	req := sampleRequest(t)
	req.Fields["id"] = structpb.NewNumberValue(99)

	resp, err := handler.CreateEmployee(context.Background(), req)
	if err != nil {
		t.Fatalf("CreateEmployee returned error: %v", err)
	}

	if _, ok := stub.createFields["id"]; ok {
		t.Fatalf("expected client supplied id to be dropped, got %+v", stub.createFields)
	}
	if stub.createFields["department"] != "Engineering" {
		t.Fatalf("expected department to pass through, got %v", stub.createFields["department"])
	}
	if got := resp.GetFields()["id"].GetNumberValue(); got != 1 {
		t.Fatalf("expected response id 1, got %v", got)
	}
	if got := resp.GetFields()["isactive"].GetBoolValue(); !got {
		t.Fatal("expected isactive true in response")
	}
	if _, ok := resp.GetFields()["last_working_date"]; ok {
		t.Fatal("expected last_working_date to be omitted for active employee")
	}
}

func TestEmployeeGrpcHandler_CreateEmployee_ValidationError(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{createErr: &employee.InvalidEnumError{Field: "department"}}
	handler := NewEmployeeGrpcHandler(stub)

	_, err := handler.CreateEmployee(context.Background(), sampleRequest(t))
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected invalid argument, got %v", status.Code(err))
	}
}

func TestEmployeeGrpcHandler_UpdateEmployee_PassesIDAndChanges(t *testing.T) {
	t.Parallel()

	updated := sampleRecord(4)
	updated.LastWorkingDate = "2024-03-31"
	stub := &stubEmployeeUseCase{updateOut: updated}
	handler := NewEmployeeGrpcHandler(stub)

	req, err := structpb.NewStruct(map[string]any{
		"id":                float64(4),
		"last_working_date": "2024-03-31",
	})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}

	resp, err := handler.UpdateEmployee(context.Background(), req)
	if err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	if stub.updateID != 4 {
		t.Fatalf("expected id 4, got %d", stub.updateID)
	}
	if _, ok := stub.updateFields["id"]; ok {
		t.Fatal("expected id to be removed from changes")
	}
	if stub.updateFields["last_working_date"] != "2024-03-31" {
		t.Fatalf("unexpected changes: %+v", stub.updateFields)
	}
	if got := resp.GetFields()["last_working_date"].GetStringValue(); got != "2024-03-31" {
		t.Fatalf("expected last_working_date in response, got %q", got)
	}
}

func TestEmployeeGrpcHandler_UpdateEmployee_NullClearsField(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{updateOut: sampleRecord(2)}
	handler := NewEmployeeGrpcHandler(stub)

	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":                structpb.NewNumberValue(2),
		"last_working_date": structpb.NewNullValue(),
	}}
	if _, err := handler.UpdateEmployee(context.Background(), req); err != nil {
		t.Fatalf("UpdateEmployee returned error: %v", err)
	}

	value, ok := stub.updateFields["last_working_date"]
	if !ok || value != nil {
		t.Fatalf("expected explicit nil for last_working_date, got %v (present=%v)", value, ok)
	}
}

func TestEmployeeGrpcHandler_UpdateEmployee_InvalidID(t *testing.T) {
	t.Parallel()

	cases := map[string]*structpb.Value{
		"missing":  nil,
		"fraction": structpb.NewNumberValue(1.5),
		"zero":     structpb.NewNumberValue(0),
		"string":   structpb.NewStringValue("1"),
	}

	for name, id := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			stub := &stubEmployeeUseCase{}
			handler := NewEmployeeGrpcHandler(stub)

			req := &structpb.Struct{Fields: map[string]*structpb.Value{
				"position": structpb.NewStringValue("Lead"),
			}}
			if id != nil {
				req.Fields["id"] = id
			}

			_, err := handler.UpdateEmployee(context.Background(), req)
			if status.Code(err) != codes.InvalidArgument {
				t.Fatalf("expected invalid argument, got %v", status.Code(err))
			}
			if stub.updateFields != nil {
				t.Fatal("use case should not be called")
			}
		})
	}
}

func TestEmployeeGrpcHandler_GetEmployee_NotFound(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{getErr: &employee.NotFoundError{ID: 7}}
	handler := NewEmployeeGrpcHandler(stub)

	_, err := handler.GetEmployee(context.Background(), wrapperspb.Int64(7))
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected not found, got %v", status.Code(err))
	}
	if stub.getID != 7 {
		t.Fatalf("expected id 7, got %d", stub.getID)
	}
}

func TestEmployeeGrpcHandler_DeleteEmployee_PersistFailure(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{deleteErr: fmt.Errorf("employee: persist snapshot: %w", errors.New("disk full"))}
	handler := NewEmployeeGrpcHandler(stub)

	_, err := handler.DeleteEmployee(context.Background(), wrapperspb.Int64(3))
	if status.Code(err) != codes.Internal {
		t.Fatalf("expected internal, got %v", status.Code(err))
	}
	if stub.deleteID != 3 {
		t.Fatalf("expected id 3, got %d", stub.deleteID)
	}
}

func TestEmployeeGrpcHandler_ListEmployees_PreservesOrder(t *testing.T) {
	t.Parallel()

	stub := &stubEmployeeUseCase{listOut: []employee.Record{sampleRecord(3), sampleRecord(1)}}
	handler := NewEmployeeGrpcHandler(stub)

	resp, err := handler.ListEmployees(context.Background(), &emptypb.Empty{})
	if err != nil {
		t.Fatalf("ListEmployees returned error: %v", err)
	}

	values := resp.GetValues()
	if len(values) != 2 {
		t.Fatalf("expected 2 employees, got %d", len(values))
	}
	if values[0].GetStructValue().GetFields()["id"].GetNumberValue() != 3 ||
		values[1].GetStructValue().GetFields()["id"].GetNumberValue() != 1 {
		t.Fatalf("expected insertion order to be preserved, got %v", values)
	}
}

func TestToStatusError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want codes.Code
	}{
		{name: "missing field", err: &employee.MissingFieldError{Field: "email"}, want: codes.InvalidArgument},
		{name: "invalid format", err: &employee.InvalidFormatError{Field: "mobile_number"}, want: codes.InvalidArgument},
		{name: "not found", err: &employee.NotFoundError{ID: 1}, want: codes.NotFound},
		{name: "other", err: errors.New("boom"), want: codes.Internal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := status.Code(toStatusError(tc.err)); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	if toStatusError(nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestEmployeeService_EndToEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	snapshots, err := file.New(filepath.Join(t.TempDir(), "employees.json"))
	if err != nil {
		t.Fatalf("file.New: %v", err)
	}
	store, err := employee.Open(ctx, snapshots)
	if err != nil {
		t.Fatalf("employee.Open: %v", err)
	}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	employeev1.RegisterEmployeeServiceServer(srv, NewEmployeeGrpcHandler(store))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("grpc.NewClient: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	client := employeev1.NewEmployeeServiceClient(conn)

	first, err := client.CreateEmployee(ctx, sampleRequest(t))
	if err != nil {
		t.Fatalf("CreateEmployee: %v", err)
	}
	if first.GetFields()["id"].GetNumberValue() != 1 {
		t.Fatalf("expected id 1, got %v", first.GetFields()["id"])
	}

	bad := sampleRequest(t)
	bad.Fields["mobile_number"] = structpb.NewStringValue("12345")
	if _, err := client.CreateEmployee(ctx, bad); status.Code(err) != codes.InvalidArgument {
		t.Fatalf("expected invalid argument for short mobile number, got %v", err)
	}

	update, err := structpb.NewStruct(map[string]any{"id": float64(1), "position": "Lead"})
	if err != nil {
		t.Fatalf("NewStruct: %v", err)
	}
	updated, err := client.UpdateEmployee(ctx, update)
	if err != nil {
		t.Fatalf("UpdateEmployee: %v", err)
	}
	if updated.GetFields()["position"].GetStringValue() != "Lead" {
		t.Fatalf("expected position Lead, got %v", updated.GetFields()["position"])
	}

	if _, err := client.DeleteEmployee(ctx, wrapperspb.Int64(1)); err != nil {
		t.Fatalf("DeleteEmployee: %v", err)
	}
	if _, err := client.GetEmployee(ctx, wrapperspb.Int64(1)); status.Code(err) != codes.NotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	list, err := client.ListEmployees(ctx, &emptypb.Empty{})
	if err != nil {
		t.Fatalf("ListEmployees: %v", err)
	}
	if len(list.GetValues()) != 0 {
		t.Fatalf("expected empty list, got %d", len(list.GetValues()))
	}
}
