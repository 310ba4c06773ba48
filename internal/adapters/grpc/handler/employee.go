package handler

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/ogurasousui/employee-record-store/internal/adapters/grpc/employeev1"
	"github.com/ogurasousui/employee-record-store/internal/core/employee"
)

// maxExactID は float64 で誤差なく表現できる ID の上限です。
const maxExactID = 1 << 53

var _ employeev1.EmployeeServiceServer = (*EmployeeGrpcHandler)(nil)

// EmployeeGrpcHandler は EmployeeService の gRPC 実装です。
type EmployeeGrpcHandler struct {
	svc employee.UseCase
}

// NewEmployeeGrpcHandler は EmployeeGrpcHandler を生成します。
func NewEmployeeGrpcHandler(svc employee.UseCase) *EmployeeGrpcHandler {
	return &EmployeeGrpcHandler{svc: svc}
}

// ListEmployees は全社員を挿入順で返します。
func (h *EmployeeGrpcHandler) ListEmployees(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	records := h.svc.List(ctx)

	values := make([]*structpb.Value, 0, len(records))
	for _, rec := range records {
		s, err := toProtoRecord(rec)
		if err != nil {
			return nil, toStatusError(err)
		}
		values = append(values, structpb.NewStructValue(s))
	}

	return &structpb.ListValue{Values: values}, nil
}

// GetEmployee は社員を取得します。
func (h *EmployeeGrpcHandler) GetEmployee(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	found, err := h.svc.Get(ctx, req.GetValue())
	if err != nil {
		return nil, toStatusError(err)
	}

	return respond(found)
}

// CreateEmployee は社員を作成します。
func (h *EmployeeGrpcHandler) CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := employee.Fields(req.AsMap())
	delete(fields, employee.FieldID)

	created, err := h.svc.Create(ctx, fields)
	if err != nil {
		return nil, toStatusError(err)
	}

	return respond(created)
}

// UpdateEmployee は id で指定した社員に部分更新を適用します。
func (h *EmployeeGrpcHandler) UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	fields := employee.Fields(req.AsMap())
	id, err := parseID(fields[employee.FieldID])
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	delete(fields, employee.FieldID)

	updated, err := h.svc.Update(ctx, id, fields)
	if err != nil {
		return nil, toStatusError(err)
	}

	return respond(updated)
}

// DeleteEmployee は社員を削除します。
func (h *EmployeeGrpcHandler) DeleteEmployee(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	if err := h.svc.Delete(ctx, req.GetValue()); err != nil {
		return nil, toStatusError(err)
	}

	return &emptypb.Empty{}, nil
}

func respond(rec employee.Record) (*structpb.Struct, error) {
	s, err := toProtoRecord(rec)
	if err != nil {
		return nil, toStatusError(err)
	}
	return s, nil
}

func toProtoRecord(rec employee.Record) (*structpb.Struct, error) {
	fields := rec.Fields()
	fields[employee.FieldID] = rec.ID
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode employee %d: %w", rec.ID, err)
	}
	return s, nil
}

func parseID(value any) (int64, error) {
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("id is required")
	case float64:
		if v != math.Trunc(v) || v < 1 || v > maxExactID {
			return 0, fmt.Errorf("id must be a positive integer")
		}
		return int64(v), nil
	default:
		return 0, fmt.Errorf("id must be a number")
	}
}
