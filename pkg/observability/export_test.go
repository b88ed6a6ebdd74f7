package observability

var (
	RunSampler  = runSampler
	RunResource = runResource
)
