// Package employeev1 は employee.v1.EmployeeService の gRPC サービス定義です。
//
// メッセージには protobuf の well-known types を使い、レコードはフィールドマップ
// (google.protobuf.Struct) としてやり取りします。
package employeev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName は gRPC サービスの完全修飾名です。
const ServiceName = "employee.v1.EmployeeService"

const (
	ListEmployeesFullMethodName  = "/" + ServiceName + "/ListEmployees"
	GetEmployeeFullMethodName    = "/" + ServiceName + "/GetEmployee"
	CreateEmployeeFullMethodName = "/" + ServiceName + "/CreateEmployee"
	UpdateEmployeeFullMethodName = "/" + ServiceName + "/UpdateEmployee"
	DeleteEmployeeFullMethodName = "/" + ServiceName + "/DeleteEmployee"
)

// EmployeeServiceServer はサーバー側の実装インターフェースです。
type EmployeeServiceServer interface {
	ListEmployees(ctx context.Context, req *emptypb.Empty) (*structpb.ListValue, error)
	GetEmployee(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
	CreateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateEmployee(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteEmployee(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// EmployeeService_ServiceDesc は EmployeeService の grpc.ServiceDesc です。
var EmployeeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EmployeeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListEmployees",
			Handler:    unary(ListEmployeesFullMethodName, func() *emptypb.Empty { return new(emptypb.Empty) }, EmployeeServiceServer.ListEmployees),
		},
		{
			MethodName: "GetEmployee",
			Handler:    unary(GetEmployeeFullMethodName, func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }, EmployeeServiceServer.GetEmployee),
		},
		{
			MethodName: "CreateEmployee",
			Handler:    unary(CreateEmployeeFullMethodName, func() *structpb.Struct { return new(structpb.Struct) }, EmployeeServiceServer.CreateEmployee),
		},
		{
			MethodName: "UpdateEmployee",
			Handler:    unary(UpdateEmployeeFullMethodName, func() *structpb.Struct { return new(structpb.Struct) }, EmployeeServiceServer.UpdateEmployee),
		},
		{
			MethodName: "DeleteEmployee",
			Handler:    unary(DeleteEmployeeFullMethodName, func() *wrapperspb.Int64Value { return new(wrapperspb.Int64Value) }, EmployeeServiceServer.DeleteEmployee),
		},
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterEmployeeServiceServer はサーバーにサービスを登録します。
func RegisterEmployeeServiceServer(s grpc.ServiceRegistrar, srv EmployeeServiceServer) {
	s.RegisterService(&EmployeeService_ServiceDesc, srv)
}

func unary[Req proto.Message, Resp proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(EmployeeServiceServer, context.Context, Req) (Resp, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		server := srv.(EmployeeServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(server, ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EmployeeServiceClient は EmployeeService のクライアントです。
type EmployeeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeServiceClient はクライアントを生成します。
func NewEmployeeServiceClient(cc grpc.ClientConnInterface) *EmployeeServiceClient {
	return &EmployeeServiceClient{cc: cc}
}

func (c *EmployeeServiceClient) ListEmployees(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, ListEmployeesFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) GetEmployee(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) CreateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CreateEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) UpdateEmployee(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UpdateEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *EmployeeServiceClient) DeleteEmployee(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, DeleteEmployeeFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
