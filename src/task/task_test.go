package task

import (
	"bytes"
	"context"
	"fmt"
	nImage "image"
	"image/color"
	nGif "image/gif"
	nPng "image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seventv/RainbowProcessor/src/configure"
	"github.com/seventv/RainbowProcessor/src/containers"
	"github.com/seventv/RainbowProcessor/src/global"
	"github.com/seventv/RainbowProcessor/src/rainbow"
)

type object struct {
	data        []byte
	contentType string
}

type fakeS3 struct {
	mtx     sync.Mutex
	objects map[string]object
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string]object{}}
}

func (f *fakeS3) UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType, acl, cacheControl *string) error {
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}

	f.mtx.Lock()
	defer f.mtx.Unlock()
	obj := object{data: b}
	if contentType != nil {
		obj.contentType = *contentType
	}
	f.objects[bucket+"/"+key] = obj
	return nil
}

func (f *fakeS3) DownloadFile(ctx context.Context, bucket, key string, file io.WriterAt) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	obj, ok := f.objects[bucket+"/"+key]
	if !ok {
		return fmt.Errorf("no such key: %s", key)
	}
	_, err := file.WriteAt(obj.data, 0)
	return err
}

func newCtx() global.Context {
	cfg := &configure.Config{
		Rate:           rainbow.DefaultRate,
		MaxJobDuration: 60,
	}
	cfg.Rmq.JobQueueName = "jobs"
	cfg.Rmq.ResultQueueName = "results"
	cfg.Rmq.UpdateQueueName = "updates"

	return global.New(context.Background(), cfg)
}

func whitePng(t *testing.T) []byte {
	t.Helper()
	img := nImage.NewNRGBA(nImage.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xFF
	}
	buf := bytes.Buffer{}
	require.NoError(t, nPng.Encode(&buf, img))
	return buf.Bytes()
}

func animatedGif(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.RGBA{A: 0xFF}, color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}}
	g := &nGif.GIF{LoopCount: 3}
	for i, d := range []int{10, 5, 7} {
		pm := nImage.NewPaletted(nImage.Rect(0, 0, 4, 4), pal)
		pm.Pix[i] = 1
		g.Image = append(g.Image, pm)
		g.Delay = append(g.Delay, d)
	}
	buf := bytes.Buffer{}
	require.NoError(t, nGif.EncodeAll(&buf, g))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, data, 0600))
	return p
}

func decodeOutput(t *testing.T, data []byte) *nGif.GIF {
	t.Helper()
	g, err := nGif.DecodeAll(bytes.NewReader(data))
	require.NoError(t, err)
	return g
}

func eventTypes(events []TaskEvent) []TaskEventType {
	types := make([]TaskEventType, len(events))
	for i, e := range events {
		types[i] = e.Type
	}
	return types
}

func TestRunStatic(t *testing.T) {
	in := writeFile(t, "white.png", whitePng(t))

	task := New(in, rainbow.DefaultRate)
	result := task.Run(newCtx())

	require.True(t, result.Success(), result.Error)
	assert.Equal(t, in+".rainbow.gif", result.Output)
	assert.Equal(t, 30, result.Frames)
	assert.Equal(t, task.ID().String(), result.TaskID)
	assert.Equal(t, []TaskEventType{Started, Downloaded, Extracted, Shifted, Encoded, Uploaded, Completed}, eventTypes(task.Events()))

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)
	assert.Equal(t, "GIF89a", string(data[:6]))
	assert.True(t, bytes.Contains(data, []byte("Made by Dashstrom")))

	g := decodeOutput(t, data)
	require.Len(t, g.Image, 30)
	assert.Equal(t, 0, g.LoopCount)
	assert.Equal(t, uint8(255), g.BackgroundIndex)
	for i := range g.Image {
		assert.Equal(t, 4, g.Delay[i])
		assert.Equal(t, byte(nGif.DisposalBackground), g.Disposal[i])
		assert.Equal(t, nImage.Rect(0, 0, 2, 2), g.Image[i].Bounds())
	}

	// (180, 0, 255) on the web safe palette
	assert.Equal(t, color.RGBA{R: 0xCC, G: 0x00, B: 0xFF, A: 0xFF}, g.Image[0].At(1, 1))
}

func TestRunAnimated(t *testing.T) {
	in := writeFile(t, "anim.gif", animatedGif(t))

	result := New(in, rainbow.DefaultRate).Run(newCtx())
	require.True(t, result.Success(), result.Error)
	assert.Equal(t, 3, result.Frames)

	data, err := os.ReadFile(result.Output)
	require.NoError(t, err)

	g := decodeOutput(t, data)
	require.Len(t, g.Image, 3)
	assert.Equal(t, []int{10, 5, 7}, g.Delay)
	assert.Equal(t, 3, g.LoopCount)
	assert.Equal(t, []byte{2, 2, 2}, g.Disposal)
}

func TestRunMissing(t *testing.T) {
	task := New(filepath.Join(t.TempDir(), "nope.png"), rainbow.DefaultRate)

	result := task.Run(newCtx())
	require.False(t, result.Success())
	assert.ErrorIs(t, result.Err, os.ErrNotExist)
	assert.Contains(t, result.Error, "read: ")
	assert.Empty(t, result.Output)
	assert.Equal(t, []TaskEventType{Started, Failed}, eventTypes(task.Events()))
}

func TestRunGarbage(t *testing.T) {
	in := writeFile(t, "notes.txt", []byte("this is not an image"))

	result := New(in, rainbow.DefaultRate).Run(newCtx())
	require.False(t, result.Success())
	assert.ErrorIs(t, result.Err, containers.ErrUnknownFormat)
	assert.Contains(t, result.Error, "decode: ")

	_, err := os.Stat(OutputPath(in))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunS3(t *testing.T) {
	s3 := newFakeS3()
	s3.objects["emotes/in/white.png"] = object{data: whitePng(t)}

	ctx := newCtx()
	ctx.Instances().AwsS3 = s3

	result := New("s3://emotes/in/white.png", 0).Run(ctx)
	require.True(t, result.Success(), result.Error)
	assert.Equal(t, "s3://emotes/in/white.png.rainbow.gif", result.Output)

	obj, ok := s3.objects["emotes/in/white.png.rainbow.gif"]
	require.True(t, ok)
	assert.Equal(t, "image/gif", obj.contentType)

	g := decodeOutput(t, obj.data)
	require.Len(t, g.Image, 30)
	// rate 0 keeps every frame identical
	for _, pm := range g.Image[1:] {
		assert.Equal(t, g.Image[0].Pix, pm.Pix)
	}
}

func TestRunS3Unavailable(t *testing.T) {
	result := New("s3://emotes/white.png", rainbow.DefaultRate).Run(newCtx())
	require.False(t, result.Success())
	assert.ErrorIs(t, result.Err, ErrS3Unavailable)
}

func TestParseS3URI(t *testing.T) {
	bucket, key, err := ParseS3URI("s3://emotes/a/b/c.gif")
	require.NoError(t, err)
	assert.Equal(t, "emotes", bucket)
	assert.Equal(t, "a/b/c.gif", key)

	for _, uri := range []string{"s3://", "s3://bucket", "s3://bucket/", "s3:///key", "/tmp/file.png"} {
		_, _, err := ParseS3URI(uri)
		assert.ErrorIs(t, err, ErrBadS3URI, uri)
	}

	assert.True(t, IsS3("s3://a/b"))
	assert.False(t, IsS3("a/b.png"))
}
