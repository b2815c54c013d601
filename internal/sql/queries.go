package sql

import (
	"embed"
)

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed queries/begin_run.sql
var BeginRun string

//go:embed queries/finish_run.sql
var FinishRun string

//go:embed queries/insert_processing.sql
var InsertProcessing string

//go:embed queries/update_pdf.sql
var UpdatePDF string

//go:embed queries/update_smartrequest.sql
var UpdateSmartRequest string

//go:embed queries/complete_processing.sql
var CompleteProcessing string

//go:embed queries/select_processing.sql
var SelectProcessing string

//go:embed queries/upsert_request.sql
var UpsertRequest string

//go:embed queries/update_request_status.sql
var UpdateRequestStatus string

//go:embed queries/select_requests.sql
var SelectRequests string

//go:embed queries/delete_request.sql
var DeleteRequest string

//go:embed queries/create_import_table.sql
var CreateImportTable string

//go:embed queries/merge_import.sql
var MergeImport string
