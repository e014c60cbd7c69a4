package linkertest

import "github.com/bifrost-finance/linker"

// CallIndex resolves the calls used by the linker the way a Bifrost runtime
// would.
var CallIndex = linker.CallIndexMap{
	"System.remark":                      {SectionIndex: 0, MethodIndex: 1},
	"Utility.batch_all":                  {SectionIndex: 1, MethodIndex: 2},
	"Multisig.as_multi_threshold_1":      {SectionIndex: 6, MethodIndex: 0},
	"Multisig.as_multi":                  {SectionIndex: 6, MethodIndex: 1},
	"CrossInOut.register_linked_account": {SectionIndex: 136, MethodIndex: 4},
}
