package api

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/qrgen/qrgen/encoder"
	"github.com/qrgen/qrgen/output"
)

type formPage struct {
	Filename string
	Sizes    []sizeOption
	Levels   []levelOption
}

type sizeOption struct {
	Value    int
	Selected bool
}

type levelOption struct {
	Value    string
	Label    string
	Selected bool
}

func (s *Server) handleFormPage(w http.ResponseWriter, r *http.Request) {
	page := formPage{
		Filename: strings.TrimSuffix(output.TimestampName(s.Service.Writer.Now()), output.Ext),
	}
	for _, size := range encoder.Sizes {
		page.Sizes = append(page.Sizes, sizeOption{Value: size, Selected: size == s.Defaults.ModuleSize})
	}
	for _, l := range encoder.Levels {
		page.Levels = append(page.Levels, levelOption{
			Value:    string(l.Level),
			Label:    l.Label,
			Selected: l.Level == s.Defaults.Level,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := formTemplate.Execute(w, page); err != nil {
		s.Log.Error("render form page", "error", err)
	}
}

var formTemplate = template.Must(template.New("form").Parse(formPageHTML))

const formPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR Code Generator</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #f4f6f7;
    color: #2c3e50;
    display: flex;
    justify-content: center;
    padding: 32px 16px;
  }
  .card {
    background: #fff;
    border: 1px solid #dde1e3;
    border-radius: 12px;
    padding: 32px;
    max-width: 760px;
    width: 100%;
  }
  h1 { font-size: 22px; margin-bottom: 4px; }
  .subtitle { color: #7f8c8d; font-size: 14px; margin-bottom: 20px; }
  .tabs { display: flex; gap: 4px; border-bottom: 1px solid #dde1e3; margin-bottom: 16px; }
  .tabs button {
    border: none; background: none; padding: 10px 14px; cursor: pointer;
    font-size: 14px; color: #7f8c8d; border-bottom: 2px solid transparent;
  }
  .tabs button.active { color: #2c3e50; border-bottom-color: #3498db; font-weight: 600; }
  .panel { display: none; }
  .panel.active { display: block; }
  label { display: block; font-size: 13px; font-weight: 600; margin: 10px 0 4px; }
  input, select, textarea {
    width: 100%; padding: 8px 10px; font-size: 14px;
    border: 1px solid #ccd1d4; border-radius: 6px; font-family: inherit;
  }
  textarea { min-height: 90px; resize: vertical; }
  fieldset { border: 1px solid #dde1e3; border-radius: 8px; padding: 12px 16px 16px; margin-bottom: 12px; }
  legend { font-size: 13px; font-weight: 600; padding: 0 6px; }
  .row { display: flex; gap: 12px; }
  .row > div { flex: 1; }
  .examples { display: flex; flex-wrap: wrap; gap: 6px; margin-top: 10px; }
  .examples button, .actions button, .inline {
    padding: 8px 12px; font-size: 13px; cursor: pointer;
    border: 1px solid #ccd1d4; border-radius: 6px; background: #fff;
  }
  .inline { width: 100%; margin-top: 12px; }
  .primary {
    width: 100%; margin: 16px 0; padding: 14px; font-size: 16px; font-weight: 600;
    background: #3498db; color: #fff; border: none; border-radius: 8px; cursor: pointer;
  }
  #preview {
    width: 300px; height: 300px; margin: 0 auto;
    display: flex; align-items: center; justify-content: center;
    background: #ecf0f1; border-radius: 8px; color: #7f8c8d; font-size: 13px;
  }
  #content { color: #3498db; font-size: 12px; margin-top: 8px; word-break: break-all; text-align: center; }
  #message { font-size: 13px; margin-top: 8px; text-align: center; min-height: 18px; }
  #message.error { color: #c0392b; }
  #message.ok { color: #27ae60; }
  .actions { display: flex; gap: 8px; margin-top: 16px; }
  .actions button { flex: 1; }
  button:disabled { opacity: .5; cursor: default; }
</style>
</head>
<body>
<div class="card">
  <h1>QR Code Generator</h1>
  <p class="subtitle">URLs, email, phone, SMS, WiFi and locations</p>

  <div class="tabs" id="tabs">
    <button type="button" data-tab="url" class="active">URL</button>
    <button type="button" data-tab="email">Email</button>
    <button type="button" data-tab="phone">Phone</button>
    <button type="button" data-tab="sms">SMS</button>
    <button type="button" data-tab="other">Other</button>
  </div>

  <div class="panel active" id="panel-url">
    <label for="url">URL</label>
    <input id="url" value="https://">
    <div class="examples">
      <button type="button" data-url="https://github.com">GitHub</button>
      <button type="button" data-url="https://www.google.com">Google</button>
      <button type="button" data-url="weixin://">WeChat</button>
      <button type="button" data-url="alipay://">Alipay</button>
    </div>
  </div>

  <div class="panel" id="panel-email">
    <label for="email-to">To</label>
    <input id="email-to" value="example@email.com">
    <label for="email-cc">CC (optional)</label>
    <input id="email-cc">
    <label for="email-subject">Subject</label>
    <input id="email-subject">
    <label for="email-body">Body (optional)</label>
    <textarea id="email-body"></textarea>
  </div>

  <div class="panel" id="panel-phone">
    <label for="phone-number">Phone number</label>
    <input id="phone-number" value="+">
  </div>

  <div class="panel" id="panel-sms">
    <label for="sms-number">Recipient number</label>
    <input id="sms-number" value="+">
    <label for="sms-body">Message (optional)</label>
    <textarea id="sms-body"></textarea>
  </div>

  <div class="panel" id="panel-other">
    <fieldset>
      <legend>WiFi</legend>
      <label for="wifi-ssid">Network name (SSID)</label>
      <input id="wifi-ssid">
      <label for="wifi-password">Password</label>
      <input id="wifi-password" type="password">
      <label for="wifi-encryption">Encryption</label>
      <select id="wifi-encryption">
        <option value="WPA">WPA/WPA2</option>
        <option value="WEP">WEP</option>
        <option value="nopass">None</option>
      </select>
      <button type="button" class="inline" id="wifi-generate">Generate WiFi QR code</button>
    </fieldset>
    <fieldset>
      <legend>Location</legend>
      <div class="row">
        <div><label for="geo-lat">Latitude</label><input id="geo-lat" value="39.9042"></div>
        <div><label for="geo-lng">Longitude</label><input id="geo-lng" value="116.4074"></div>
      </div>
      <button type="button" class="inline" id="geo-generate">Generate location QR code</button>
    </fieldset>
  </div>

  <fieldset>
    <legend>Settings</legend>
    <label for="filename">File name</label>
    <input id="filename" value="{{.Filename}}">
    <div class="row">
      <div>
        <label for="size">Size</label>
        <select id="size">{{range .Sizes}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}</select>
      </div>
      <div>
        <label for="level">Error correction</label>
        <select id="level">{{range .Levels}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>{{end}}</select>
      </div>
    </div>
  </fieldset>

  <button type="button" class="primary" id="generate">Generate QR code</button>

  <div id="preview"><span>The QR code will appear here</span></div>
  <div id="content"></div>
  <div id="message"></div>

  <div class="actions">
    <button type="button" id="save-as" disabled>Save as…</button>
    <button type="button" id="open-folder" disabled>Open folder</button>
  </div>
</div>
<script>
(function() {
  var current = 'url';
  var lastPath = null;
  function $(id) { return document.getElementById(id); }
  function val(id) { return $(id).value; }

  function show(text, ok) {
    var m = $('message');
    m.textContent = text;
    m.className = ok ? 'ok' : 'error';
  }

  function clearChildren(el) {
    while (el.firstChild) el.removeChild(el.firstChild);
  }

  document.querySelectorAll('#tabs button').forEach(function(btn) {
    btn.addEventListener('click', function() {
      current = btn.getAttribute('data-tab');
      document.querySelectorAll('#tabs button').forEach(function(b) { b.classList.toggle('active', b === btn); });
      document.querySelectorAll('.panel').forEach(function(p) { p.classList.toggle('active', p.id === 'panel-' + current); });
    });
  });

  document.querySelectorAll('[data-url]').forEach(function(btn) {
    btn.addEventListener('click', function() { $('url').value = btn.getAttribute('data-url'); });
  });

  function post(path, body) {
    return fetch(path, {
      method: 'POST',
      headers: { 'Content-Type': 'application/json' },
      body: JSON.stringify(body)
    }).then(function(r) {
      return r.json().then(function(data) {
        if (!r.ok) throw new Error(data.error || r.statusText);
        return data;
      });
    });
  }

  function generate(kind, fields) {
    post('/generate', {
      kind: kind,
      fields: fields,
      filename: val('filename'),
      size: parseInt(val('size'), 10),
      level: val('level')
    }).then(function(data) {
      var img = document.createElement('img');
      img.setAttribute('alt', 'QR Code');
      img.setAttribute('src', 'data:image/png;base64,' + data.preview);
      clearChildren($('preview'));
      $('preview').appendChild(img);
      $('content').textContent = 'Content: ' + data.content;
      lastPath = data.path;
      $('save-as').disabled = false;
      $('open-folder').disabled = false;
      show('Saved to ' + data.path, true);
    }).catch(function(err) {
      show('Generation failed: ' + err.message, false);
    });
  }

  $('generate').addEventListener('click', function() {
    switch (current) {
    case 'url':
      return generate('url', { url: val('url') });
    case 'email':
      return generate('email', { to: val('email-to'), cc: val('email-cc'), subject: val('email-subject'), body: val('email-body') });
    case 'phone':
      return generate('phone', { number: val('phone-number') });
    case 'sms':
      return generate('sms', { number: val('sms-number'), body: val('sms-body') });
    default:
      show('Use the generate button of the WiFi or Location section', false);
    }
  });

  $('wifi-generate').addEventListener('click', function() {
    generate('wifi', { ssid: val('wifi-ssid'), password: val('wifi-password'), encryption: val('wifi-encryption') });
  });

  $('geo-generate').addEventListener('click', function() {
    generate('geo', { latitude: val('geo-lat'), longitude: val('geo-lng') });
  });

  $('save-as').addEventListener('click', function() {
    if (!lastPath) return;
    var target = window.prompt('Save a copy to (path on this machine):', '');
    if (!target) return;
    post('/save-as', { source: lastPath, target: target })
      .then(function(data) { show('Saved to ' + data.path, true); })
      .catch(function(err) { show('Save failed: ' + err.message, false); });
  });

  $('open-folder').addEventListener('click', function() {
    if (!lastPath) return;
    post('/open-folder', { path: lastPath })
      .catch(function(err) { show('Could not open folder: ' + err.message, false); });
  });
})();
</script>
</body>
</html>`
