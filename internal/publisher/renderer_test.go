package publisher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dunterov/aws-csv-to-confluence/internal"
	"github.com/dunterov/aws-csv-to-confluence/internal/inventory"
)

func TestPageTitle(t *testing.T) {
	tests := []struct {
		name     string
		display  string
		subtitle string
		want     string
	}{
		{"no subtitle", "ec2", "", "[AWS] ec2"},
		{"with subtitle", "ec2", "prod", "[AWS] [prod] ec2"},
		{"display casing preserved", "EC2", "Prod", "[AWS] [Prod] EC2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageTitle(tt.display, tt.subtitle))
		})
	}
}

func TestRenderBody(t *testing.T) {
	group := inventory.PageGroup{
		Key:     "ec2",
		Display: "ec2",
		Records: []internal.Record{
			{
				Identifier: "i-1",
				Name:       "web-1",
				Type:       "instance",
				Region:     "us-east-1",
				ARN:        "arn:1",
				Group:      "ec2",
			},
			{
				Identifier: "i-2",
				Type:       "instance",
				Region:     "us-east-1",
				ARN:        "arn:2",
				Group:      "ec2",
			},
		},
	}

	want := "||Identifier||Name||Type||Region||ARN||\n" +
		"|i-1|web-1|instance|us-east-1|arn:1|\n" +
		"|i-2|(not tagged)|instance|us-east-1|arn:2|"

	assert.Equal(t, want, RenderBody(group))
}

func TestRenderBody_EmptyIdentifierRendersEmptyCell(t *testing.T) {
	group := inventory.PageGroup{
		Key:     "ec2",
		Display: "ec2",
		Records: []internal.Record{
			{Name: "orphan", Type: "instance", Region: "us-east-1", ARN: "arn:1", Group: "ec2"},
		},
	}

	want := "||Identifier||Name||Type||Region||ARN||\n" +
		"||orphan|instance|us-east-1|arn:1|"

	assert.Equal(t, want, RenderBody(group))
}

func TestRenderBody_NoRecordsHeaderOnly(t *testing.T) {
	assert.Equal(t,
		"||Identifier||Name||Type||Region||ARN||",
		RenderBody(inventory.PageGroup{Key: "ec2", Display: "ec2"}),
	)
}

func TestRenderBody_Deterministic(t *testing.T) {
	group := inventory.PageGroup{
		Key:     "rds",
		Display: "RDS",
		Records: []internal.Record{
			{Identifier: "db-1", Name: "primary", Type: "db", Region: "eu-west-1", ARN: "arn:db", Group: "RDS"},
		},
	}
	assert.Equal(t, RenderBody(group), RenderBody(group))
}
