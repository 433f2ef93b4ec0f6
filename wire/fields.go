// Package wire implements the request/response serializer: one encode/decode pair per opcode, built on top of the tagged-binary
// codec in package binary and the value model in package types.
package wire

// Field-name registry tokens. These are the exact short
// strings every request/response map key MUST use on the wire; decoders
// MUST tolerate and skip unrecognized tokens rather than failing.
const (
	// Request
	FHeader = "h"
	FPayload = "p"
	FVersion = "v"
	FTableName = "n"
	FOpcode = "o"
	FTimeout = "t"
	FTopoSeqNum = "ts"
	FConsistency = "co"
	FType = "y"
	FDurability = "du"
	FReturnRow = "rr"
	FKey = "k"
	FValue = "l"
	FRowVersion = "rv"
	FTTL = "tt"
	FUpdateTTL = "ut"
	FExactMatch = "ec"
	FIdentityCache = "ic"
	FContinuationKey = "ck"
	FMaxWriteKB = "mw"
	FMaxReadKB = "mr"
	FNumberLimit = "nl"
	FTraceLevel = "tl"
	FQueryVersion = "qv"
	FIsPrepared = "is"
	FIsSimpleQuery = "iq"
	FPreparedQuery = "pq"
	FPreparedStmt = "ps"
	FBindVariables = "bv"
	FName = "m"
	FShardID = "si"
	FQuery = "q"
	FStatement = "st"
	FRange = "rg"
	FRangePath = "rp"
	FStart = "sr"
	FEnd = "en"
	FInclusive = "in"
	FNumOperations = "no"
	FOperations = "os"
	FAbortOnFail = "a"
	FWriteMultiple = "wm"
	FCompartmentOCID = "cc"
	FNamespace = "ns"
	FFreeFormTags = "ff"
	FDefinedTags = "dt"
	FEtag = "et"
	FLimits = "lm"
	FLimitsMode = "mo"
	FReadUnits = "ru"
	FWriteUnits = "wu"
	FStorageGB = "sg"
	FRegion = "rn"
	FTableDDL = "td"
	FIndexes = "ix"
	FFields = "f"
	FIndex = "i"
	FPath = "pt"
	FTableUsage = "u"
	FTableUsagePeriod = "pd"
	FListStartIndex = "ls"
	FListMaxToRead = "lx"
	FTables = "tb"
	FLastIndex = "li"
	FMaxShardUsagePct = "ms"

	// Response
	FErrorCode = "e"
	FException = "x"
	FNumDeletions = "nd"
	FRetryHint = "rh"
	FSuccess = "ss"
	FWmFailure = "wf"
	FWmFailIndex = "wi"
	FWmFailResult = "wr"
	FWmSuccess = "ws"
	FRow = "r"
	FReplicas = "rc"
	FSchemaFrozen = "sf"
	FInitialized = "it"
	FTableSchema = "ac"
	FTableState = "as"
	FSysopResult = "rs"
	FSysopState = "ta"
	FTableOCID = "to"
	FOperationID = "od"
	FConsumed = "c"
	FReadKB = "rk"
	FWriteKB = "wk"
	FExpirationTime = "xp"
	FModificationTime = "md"
	FExistingModTime = "em"
	FExistingValue = "el"
	FExistingVersion = "ev"
	FGenerated = "gn"
	FReturnInfo = "ri"
	FDriverQueryPlan = "dq"
	FMathContextCode = "mc"
	FMathContextRounding = "rm"
	FMathContextPrecision = "cp"
	FNotTargetTables = "nt"
	FNumResults = "nr"
	FProxyTopoSeqNum = "pn"
	FQueryOperation = "qo"
	FQueryPlanString = "qs"
	FQueryResults = "qr"
	FQueryResultSchema = "qc"
	FReachedLimit = "re"
	FShardIDs = "sa"
	FSortPhase1Results = "p1"
	FTableAccessInfo = "ai"
	FTopologyInfo = "tp"
	FNextStartTime = "ni"
	FReplicaStats = "ra"
	FReplicaLag = "rl"
	FTime = "tm"
	FReadThrottleCount = "rt"
	FWriteThrottleCount = "wt"
	FStorageThrottleCount = "sl"
)
