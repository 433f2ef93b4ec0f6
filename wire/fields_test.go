package wire

import "testing"

// allFieldTokens lists every exported field-name-registry constant by
// identifier (not by re-typing its string value), so a mistaken duplicate
// assignment in fields.go is caught here rather than silently colliding on
// the wire.
var allFieldTokens = map[string]string{
	"FHeader":          FHeader,
	"FPayload":         FPayload,
	"FVersion":         FVersion,
	"FTableName":       FTableName,
	"FOpcode":          FOpcode,
	"FTimeout":         FTimeout,
	"FTopoSeqNum":      FTopoSeqNum,
	"FConsistency":     FConsistency,
	"FType":            FType,
	"FDurability":      FDurability,
	"FReturnRow":       FReturnRow,
	"FKey":             FKey,
	"FValue":           FValue,
	"FRowVersion":      FRowVersion,
	"FTTL":             FTTL,
	"FUpdateTTL":       FUpdateTTL,
	"FExactMatch":      FExactMatch,
	"FIdentityCache":   FIdentityCache,
	"FContinuationKey": FContinuationKey,
	"FMaxWriteKB":      FMaxWriteKB,
	"FMaxReadKB":       FMaxReadKB,
	"FNumberLimit":     FNumberLimit,
	"FTraceLevel":      FTraceLevel,
	"FQueryVersion":    FQueryVersion,
	"FIsPrepared":      FIsPrepared,
	"FIsSimpleQuery":   FIsSimpleQuery,
	"FPreparedQuery":   FPreparedQuery,
	"FPreparedStmt":    FPreparedStmt,
	"FBindVariables":   FBindVariables,
	"FName":            FName,
	"FShardID":         FShardID,
	"FQuery":           FQuery,
	"FStatement":       FStatement,
	"FRange":           FRange,
	"FRangePath":       FRangePath,
	"FStart":           FStart,
	"FEnd":             FEnd,
	"FInclusive":       FInclusive,
	"FNumOperations":   FNumOperations,
	"FOperations":      FOperations,
	"FAbortOnFail":     FAbortOnFail,
	"FWriteMultiple":   FWriteMultiple,
	"FCompartmentOCID": FCompartmentOCID,
	"FNamespace":       FNamespace,
	"FFreeFormTags":    FFreeFormTags,
	"FDefinedTags":     FDefinedTags,
	"FEtag":            FEtag,
	"FLimits":          FLimits,
	"FLimitsMode":      FLimitsMode,
	"FReadUnits":       FReadUnits,
	"FWriteUnits":      FWriteUnits,
	"FStorageGB":       FStorageGB,
	"FRegion":          FRegion,
	"FTableDDL":        FTableDDL,
	"FIndexes":         FIndexes,
	"FFields":          FFields,
	"FIndex":           FIndex,
	"FPath":            FPath,
	"FTableUsage":      FTableUsage,
	"FTableUsagePeriod": FTableUsagePeriod,
	"FListStartIndex":  FListStartIndex,
	"FListMaxToRead":   FListMaxToRead,
	"FTables":          FTables,
	"FLastIndex":       FLastIndex,
	"FMaxShardUsagePct": FMaxShardUsagePct,

	"FErrorCode":            FErrorCode,
	"FException":            FException,
	"FNumDeletions":         FNumDeletions,
	"FRetryHint":            FRetryHint,
	"FSuccess":              FSuccess,
	"FWmFailure":            FWmFailure,
	"FWmFailIndex":          FWmFailIndex,
	"FWmFailResult":         FWmFailResult,
	"FWmSuccess":            FWmSuccess,
	"FRow":                  FRow,
	"FReplicas":             FReplicas,
	"FSchemaFrozen":         FSchemaFrozen,
	"FInitialized":          FInitialized,
	"FTableSchema":          FTableSchema,
	"FTableState":           FTableState,
	"FSysopResult":          FSysopResult,
	"FSysopState":           FSysopState,
	"FTableOCID":            FTableOCID,
	"FOperationID":          FOperationID,
	"FConsumed":             FConsumed,
	"FReadKB":               FReadKB,
	"FWriteKB":              FWriteKB,
	"FExpirationTime":       FExpirationTime,
	"FModificationTime":     FModificationTime,
	"FExistingModTime":      FExistingModTime,
	"FExistingValue":        FExistingValue,
	"FExistingVersion":      FExistingVersion,
	"FGenerated":            FGenerated,
	"FReturnInfo":           FReturnInfo,
	"FDriverQueryPlan":      FDriverQueryPlan,
	"FMathContextCode":      FMathContextCode,
	"FMathContextRounding":  FMathContextRounding,
	"FMathContextPrecision": FMathContextPrecision,
	"FNotTargetTables":      FNotTargetTables,
	"FNumResults":           FNumResults,
	"FProxyTopoSeqNum":      FProxyTopoSeqNum,
	"FQueryOperation":       FQueryOperation,
	"FQueryPlanString":      FQueryPlanString,
	"FQueryResults":         FQueryResults,
	"FQueryResultSchema":    FQueryResultSchema,
	"FReachedLimit":         FReachedLimit,
	"FShardIDs":             FShardIDs,
	"FSortPhase1Results":    FSortPhase1Results,
	"FTableAccessInfo":      FTableAccessInfo,
	"FTopologyInfo":         FTopologyInfo,
	"FNextStartTime":        FNextStartTime,
	"FReplicaStats":         FReplicaStats,
	"FReplicaLag":           FReplicaLag,
	"FTime":                 FTime,
	"FReadThrottleCount":    FReadThrottleCount,
	"FWriteThrottleCount":   FWriteThrottleCount,
	"FStorageThrottleCount": FStorageThrottleCount,
}

func TestFieldTokensAreUnique(t *testing.T) {
	seen := make(map[string]string, len(allFieldTokens))
	for name, tok := range allFieldTokens {
		if other, dup := seen[tok]; dup {
			t.Errorf("token %q is shared by both %s and %s", tok, other, name)
		}
		seen[tok] = name
	}
}

func TestFieldTokensAreNonEmpty(t *testing.T) {
	for name, tok := range allFieldTokens {
		if tok == "" {
			t.Errorf("%s has an empty token", name)
		}
	}
}
