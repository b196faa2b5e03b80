package operations

import (
	"context"
	"strings"

	"github.com/robby/mondaypro/internal/monday"
)

// folderPageSize is the limit folder getAll sends when returning everything.
const folderPageSize = 100

// folderFieldMap maps selectable field names to their GraphQL selection.
var folderFieldMap = map[string]string{
	"id":          "id",
	"name":        "name",
	"color":       "color",
	"created_at":  "created_at",
	"owner_id":    "owner_id",
	"children":    "children { id name }",
	"parent":      "parent { id name }",
	"sub_folders": "sub_folders { id name }",
	"workspace":   "workspace { id name }",
}

var defaultFolderFields = []string{"id", "name", "color"}

const folderResultFields = `
				id
				name
				color
				workspace { id }
				parent { id }
`

func FolderCreate(ctx context.Context, ec *ExecutionContext) (any, error) {
	workspaceID, err := ec.Params.RequireString("workspaceId")
	if err != nil {
		return nil, err
	}
	name, err := ec.Params.RequireString("name")
	if err != nil {
		return nil, err
	}
	extra := ec.Params.Object("additionalFields")

	req := monday.NewRequest(`mutation (
			$workspaceId: ID!,
			$name: String!,
			$color: FolderColor,
			$parentFolderId: ID
		) {
			create_folder(
				workspace_id: $workspaceId,
				name: $name,
				color: $color,
				parent_folder_id: $parentFolderId
			) {` + folderResultFields + `			}
		}`).
		Var("workspaceId", workspaceID).
		Var("name", name)

	setIfPresent(req, extra, "color", "color")
	setIfPresent(req, extra, "parentFolderId", "parentFolderId")

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.create_folder")
}

// FolderGetAll lists folders, optionally restricted to workspaces or folder IDs.
func FolderGetAll(ctx context.Context, ec *ExecutionContext) (any, error) {
	returnAll := ec.Params.Bool("returnAll", true)

	selected := ec.Params.StringSlice("fields")
	if len(selected) == 0 {
		selected = defaultFolderFields
	}
	fields := make([]string, 0, len(selected))
	for _, f := range selected {
		if sel, ok := folderFieldMap[f]; ok {
			fields = append(fields, sel)
		}
	}
	if len(fields) == 0 {
		fields = append(fields, "id")
	}

	limit := folderPageSize
	if !returnAll {
		limit = ec.Params.Int("limit", defaultLimit)
	}

	req := monday.NewRequest(`query ($workspace_ids: [ID], $ids: [ID!], $limit: Int) {
			folders(workspace_ids: $workspace_ids, ids: $ids, limit: $limit) {
				` + strings.Join(fields, "\n") + `
			}
		}`).Var("limit", limit)

	if ids := ec.Params.StringSlice("workspaceIds"); len(ids) > 0 {
		req.Var("workspace_ids", ids)
	}
	if ids := ec.Params.StringSlice("folderIds"); len(ids) > 0 {
		req.Var("ids", ids)
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}

	if returnAll {
		limit = -1
	}
	return projectList(resp, "data.folders", limit)
}

func FolderUpdate(ctx context.Context, ec *ExecutionContext) (any, error) {
	folderID, err := ec.Params.RequireString("folderId")
	if err != nil {
		return nil, err
	}
	update := ec.Params.Object("updateFields")

	req := monday.NewRequest(`mutation (
			$folderId: ID!,
			$name: String,
			$color: FolderColor,
			$parentFolderId: ID,
			$workspaceId: ID
		) {
			update_folder(
				id: $folderId,
				name: $name,
				color: $color,
				parent_folder_id: $parentFolderId,
				workspace_id: $workspaceId
			) {` + folderResultFields + `			}
		}`).Var("folderId", folderID)

	for _, name := range []string{"name", "color", "parentFolderId", "workspaceId"} {
		setIfPresent(req, update, name, name)
	}

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.update_folder")
}

func FolderDelete(ctx context.Context, ec *ExecutionContext) (any, error) {
	folderID, err := ec.Params.RequireString("folderId")
	if err != nil {
		return nil, err
	}

	req := monday.NewRequest(`mutation ($folderId: ID!) {
			delete_folder (folder_id: $folderId) { id }
		}`).Var("folderId", folderID)

	resp, err := ec.Client.Request(ctx, req)
	if err != nil {
		return nil, err
	}
	return project(resp, "data.delete_folder")
}

// setIfPresent copies a non-empty string parameter into a variable.
func setIfPresent(req *monday.Request, p Params, param, variable string) {
	if v := p.String(param, ""); v != "" {
		req.Var(variable, v)
	}
}
