package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const uploadForm = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Image Uploader</title>
    <style>
        body { font-family: sans-serif; max-width: 600px; margin: 2em auto; }
        form { display: flex; flex-direction: column; gap: 1em; }
        input, button { padding: 0.5em; }
    </style>
</head>
<body>
    <h1>Upload an Image</h1>
    <form action="/upload" method="POST" enctype="multipart/form-data">
        <div>
            <label for="imageFile">Choose image:</label>
            <input type="file" id="imageFile" name="imageFile" accept="image/*" required />
        </div>
        <div>
            <label for="filename">Filename (optional):</label>
            <input type="text" id="filename" name="filename" />
        </div>
        <div>
            <label for="tags">Tags (comma-separated):</label>
            <input type="text" id="tags" name="tags" value="landscape, nature, sunset" required />
        </div>
        <div>Optional custom annotations (key, value)</div>
        <div>
            <input type="text" name="custom_key1" />
            <input type="text" name="custom_value1" />
        </div>
        <div>
            <input type="text" name="custom_key2" />
            <input type="text" name="custom_value2" />
        </div>
        <div>
            <input type="text" name="custom_key3" />
            <input type="text" name="custom_value3" />
        </div>
        <button type="submit">Upload</button>
    </form>
</body>
</html>
`

// HandleHome serves the upload form on GET /.
func HandleHome(c echo.Context) error {
	return c.HTML(http.StatusOK, uploadForm)
}

// HandleHealth serves GET /health.
func HandleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
