package wire

import (
	"context"

	"google.golang.org/grpc"
)

// Client and server stubs follow the layout protoc-gen-go-grpc emits for
// proto/kaikosdk.proto. Clients force Codec on every call.

const (
	StreamAggregatesOHLCVServiceV1_Subscribe_FullMethodName = "/kaikosdk.StreamAggregatesOHLCVServiceV1/Subscribe"
	StreamAggregatesVWAPServiceV1_Subscribe_FullMethodName  = "/kaikosdk.StreamAggregatesVWAPServiceV1/Subscribe"
	StreamTradesServiceV1_Subscribe_FullMethodName          = "/kaikosdk.StreamTradesServiceV1/Subscribe"
)

// newServerStream opens a server-streaming call and sends its single request.
func newServerStream[Req, Res any](ctx context.Context, cc grpc.ClientConnInterface, desc *grpc.StreamDesc, method string, in *Req, opts ...grpc.CallOption) (grpc.ServerStreamingClient[Res], error) {
	cOpts := append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	stream, err := cc.NewStream(ctx, desc, method, cOpts...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[Req, Res]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// -----------------------------------------------------------------------------
// StreamAggregatesOHLCVServiceV1
// -----------------------------------------------------------------------------

type StreamAggregatesOHLCVServiceV1Client interface {
	Subscribe(ctx context.Context, in *StreamAggregatesOHLCVRequestV1, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamAggregatesOHLCVResponseV1], error)
}

type streamAggregatesOHLCVServiceV1Client struct {
	cc grpc.ClientConnInterface
}

func NewStreamAggregatesOHLCVServiceV1Client(cc grpc.ClientConnInterface) StreamAggregatesOHLCVServiceV1Client {
	return &streamAggregatesOHLCVServiceV1Client{cc}
}

func (c *streamAggregatesOHLCVServiceV1Client) Subscribe(ctx context.Context, in *StreamAggregatesOHLCVRequestV1, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamAggregatesOHLCVResponseV1], error) {
	return newServerStream[StreamAggregatesOHLCVRequestV1, StreamAggregatesOHLCVResponseV1](ctx, c.cc,
		&StreamAggregatesOHLCVServiceV1_ServiceDesc.Streams[0], StreamAggregatesOHLCVServiceV1_Subscribe_FullMethodName, in, opts...)
}

type StreamAggregatesOHLCVServiceV1Server interface {
	Subscribe(*StreamAggregatesOHLCVRequestV1, grpc.ServerStreamingServer[StreamAggregatesOHLCVResponseV1]) error
}

func RegisterStreamAggregatesOHLCVServiceV1Server(s grpc.ServiceRegistrar, srv StreamAggregatesOHLCVServiceV1Server) {
	s.RegisterService(&StreamAggregatesOHLCVServiceV1_ServiceDesc, srv)
}

func _StreamAggregatesOHLCVServiceV1_Subscribe_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamAggregatesOHLCVRequestV1)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(StreamAggregatesOHLCVServiceV1Server).Subscribe(m, &grpc.GenericServerStream[StreamAggregatesOHLCVRequestV1, StreamAggregatesOHLCVResponseV1]{ServerStream: stream})
}

var StreamAggregatesOHLCVServiceV1_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "kaikosdk.StreamAggregatesOHLCVServiceV1",
	HandlerType: (*StreamAggregatesOHLCVServiceV1Server)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _StreamAggregatesOHLCVServiceV1_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "proto/kaikosdk.proto",
}

// -----------------------------------------------------------------------------
// StreamAggregatesVWAPServiceV1
// -----------------------------------------------------------------------------

type StreamAggregatesVWAPServiceV1Client interface {
	Subscribe(ctx context.Context, in *StreamAggregatesVWAPRequestV1, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamAggregatesVWAPResponseV1], error)
}

type streamAggregatesVWAPServiceV1Client struct {
	cc grpc.ClientConnInterface
}

func NewStreamAggregatesVWAPServiceV1Client(cc grpc.ClientConnInterface) StreamAggregatesVWAPServiceV1Client {
	return &streamAggregatesVWAPServiceV1Client{cc}
}

func (c *streamAggregatesVWAPServiceV1Client) Subscribe(ctx context.Context, in *StreamAggregatesVWAPRequestV1, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamAggregatesVWAPResponseV1], error) {
	return newServerStream[StreamAggregatesVWAPRequestV1, StreamAggregatesVWAPResponseV1](ctx, c.cc,
		&StreamAggregatesVWAPServiceV1_ServiceDesc.Streams[0], StreamAggregatesVWAPServiceV1_Subscribe_FullMethodName, in, opts...)
}

type StreamAggregatesVWAPServiceV1Server interface {
	Subscribe(*StreamAggregatesVWAPRequestV1, grpc.ServerStreamingServer[StreamAggregatesVWAPResponseV1]) error
}

func RegisterStreamAggregatesVWAPServiceV1Server(s grpc.ServiceRegistrar, srv StreamAggregatesVWAPServiceV1Server) {
	s.RegisterService(&StreamAggregatesVWAPServiceV1_ServiceDesc, srv)
}

func _StreamAggregatesVWAPServiceV1_Subscribe_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamAggregatesVWAPRequestV1)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(StreamAggregatesVWAPServiceV1Server).Subscribe(m, &grpc.GenericServerStream[StreamAggregatesVWAPRequestV1, StreamAggregatesVWAPResponseV1]{ServerStream: stream})
}

var StreamAggregatesVWAPServiceV1_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "kaikosdk.StreamAggregatesVWAPServiceV1",
	HandlerType: (*StreamAggregatesVWAPServiceV1Server)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _StreamAggregatesVWAPServiceV1_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "proto/kaikosdk.proto",
}

// -----------------------------------------------------------------------------
// StreamTradesServiceV1
// -----------------------------------------------------------------------------

type StreamTradesServiceV1Client interface {
	Subscribe(ctx context.Context, in *StreamTradesRequestV1, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamTradesResponseV1], error)
}

type streamTradesServiceV1Client struct {
	cc grpc.ClientConnInterface
}

func NewStreamTradesServiceV1Client(cc grpc.ClientConnInterface) StreamTradesServiceV1Client {
	return &streamTradesServiceV1Client{cc}
}

func (c *streamTradesServiceV1Client) Subscribe(ctx context.Context, in *StreamTradesRequestV1, opts ...grpc.CallOption) (grpc.ServerStreamingClient[StreamTradesResponseV1], error) {
	return newServerStream[StreamTradesRequestV1, StreamTradesResponseV1](ctx, c.cc,
		&StreamTradesServiceV1_ServiceDesc.Streams[0], StreamTradesServiceV1_Subscribe_FullMethodName, in, opts...)
}

type StreamTradesServiceV1Server interface {
	Subscribe(*StreamTradesRequestV1, grpc.ServerStreamingServer[StreamTradesResponseV1]) error
}

func RegisterStreamTradesServiceV1Server(s grpc.ServiceRegistrar, srv StreamTradesServiceV1Server) {
	s.RegisterService(&StreamTradesServiceV1_ServiceDesc, srv)
}

func _StreamTradesServiceV1_Subscribe_Handler(srv any, stream grpc.ServerStream) error {
	m := new(StreamTradesRequestV1)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(StreamTradesServiceV1Server).Subscribe(m, &grpc.GenericServerStream[StreamTradesRequestV1, StreamTradesResponseV1]{ServerStream: stream})
}

var StreamTradesServiceV1_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "kaikosdk.StreamTradesServiceV1",
	HandlerType: (*StreamTradesServiceV1Server)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Subscribe",
			Handler:       _StreamTradesServiceV1_Subscribe_Handler,
			ServerStreams: true,
		},
	},
	Metadata: "proto/kaikosdk.proto",
}
