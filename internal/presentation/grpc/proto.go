package grpc

// proto.go hand-writes the service surface of pricing/v1/pricing.proto
// in place of buf-generated code.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/bibbank/mortgage-pricing/internal/application/dto"
)

const serviceName = "pricing.v1.PricingService"

// ScenarioMsg is the proto BorrowerScenario. Decimals travel as strings.
type ScenarioMsg struct {
	LoanAmount  string `json:"loan_amount"`
	CreditScore int32  `json:"credit_score"`
	LTV         string `json:"ltv"`
	LoanType    string `json:"loan_type"`
}

type GetQuoteRequest struct {
	Scenario        *ScenarioMsg           `json:"scenario"`
	IncludeSchedule bool                   `json:"include_schedule"`
	ScheduleStart   *timestamppb.Timestamp `json:"schedule_start"` // nil means today
}

type GetQuoteResponse struct {
	dto.QuoteResponse
}

type OptimizeScenarioRequest struct {
	Scenario *ScenarioMsg `json:"scenario"`
}

type OptimizeScenarioResponse struct {
	dto.OptimizationResponse
}

type AnalyzeQuoteRequest struct {
	Scenario *ScenarioMsg `json:"scenario"`
}

type AnalyzeQuoteResponse struct {
	dto.AnalysisResponse
}

type CompareQuotesRequest struct {
	Scenario *ScenarioMsg `json:"scenario"`
}

type CompareQuotesResponse struct {
	dto.CompareQuotesResponse
}

type GetRateTableRequest struct {
	LoanType string `json:"loan_type"`
}

type GetRateTableResponse struct {
	dto.RateTableResponse
}

// PricingServiceServer mirrors the generated server interface.
type PricingServiceServer interface {
	GetQuote(context.Context, *GetQuoteRequest) (*GetQuoteResponse, error)
	OptimizeScenario(context.Context, *OptimizeScenarioRequest) (*OptimizeScenarioResponse, error)
	AnalyzeQuote(context.Context, *AnalyzeQuoteRequest) (*AnalyzeQuoteResponse, error)
	CompareQuotes(context.Context, *CompareQuotesRequest) (*CompareQuotesResponse, error)
	GetRateTable(context.Context, *GetRateTableRequest) (*GetRateTableResponse, error)
	mustEmbedUnimplementedPricingServiceServer()
}

// UnimplementedPricingServiceServer provides forward-compatible defaults.
type UnimplementedPricingServiceServer struct{}

func (UnimplementedPricingServiceServer) GetQuote(context.Context, *GetQuoteRequest) (*GetQuoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetQuote not implemented")
}
func (UnimplementedPricingServiceServer) OptimizeScenario(context.Context, *OptimizeScenarioRequest) (*OptimizeScenarioResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method OptimizeScenario not implemented")
}
func (UnimplementedPricingServiceServer) AnalyzeQuote(context.Context, *AnalyzeQuoteRequest) (*AnalyzeQuoteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AnalyzeQuote not implemented")
}
func (UnimplementedPricingServiceServer) CompareQuotes(context.Context, *CompareQuotesRequest) (*CompareQuotesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CompareQuotes not implemented")
}
func (UnimplementedPricingServiceServer) GetRateTable(context.Context, *GetRateTableRequest) (*GetRateTableResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRateTable not implemented")
}
func (UnimplementedPricingServiceServer) mustEmbedUnimplementedPricingServiceServer() {}

// RegisterPricingServiceServer registers srv with s.
func RegisterPricingServiceServer(s grpclib.ServiceRegistrar, srv PricingServiceServer) {
	s.RegisterService(&pricingServiceDesc, srv)
}

// unary adapts a typed method to the grpc handler signature.
func unary[Req any, Resp any](
	method string,
	call func(PricingServiceServer, context.Context, *Req) (*Resp, error),
) grpclib.MethodDesc {
	return grpclib.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PricingServiceServer), ctx, in)
			}
			info := &grpclib.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + serviceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(PricingServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

var pricingServiceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*PricingServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		unary("GetQuote", PricingServiceServer.GetQuote),
		unary("OptimizeScenario", PricingServiceServer.OptimizeScenario),
		unary("AnalyzeQuote", PricingServiceServer.AnalyzeQuote),
		unary("CompareQuotes", PricingServiceServer.CompareQuotes),
		unary("GetRateTable", PricingServiceServer.GetRateTable),
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "pricing/v1/pricing.proto",
}
